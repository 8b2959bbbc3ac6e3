package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
)

const SeasonIDEmberIsland = "s49-ember-island"

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:       SeasonIDEmberIsland,
			Name:     "Survivor: Ember Island",
			Number:   49,
			IsActive: true,
			StartsAt: time.Date(2026, 2, 25, 1, 0, 0, 0, time.UTC),
		},
	}
}

func SeedEpisodes() []episode.Episode {
	episodes := make([]episode.Episode, 0, 13)
	for number := 1; number <= 13; number++ {
		airsAt := time.Date(2026, 2, 25, 1, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(number-1))
		episodes = append(episodes, episode.Episode{
			ID:          episodeSeedID(number),
			SeasonID:    SeasonIDEmberIsland,
			Number:      number,
			Title:       episodeSeedTitles[number-1],
			AirsAt:      airsAt,
			PicksLockAt: airsAt.Add(-30 * time.Minute),
		})
	}
	return episodes
}

func episodeSeedID(number int) string {
	return fmt.Sprintf("%s-e%02d", SeasonIDEmberIsland, number)
}

var episodeSeedTitles = []string{
	"The Tide Takes Sides",
	"Sand in the Rice",
	"A Torch Worth Stealing",
	"Idols and Ashes",
	"The Quiet Alliance",
	"Merge on the Reef",
	"Paranoia at Camp",
	"The Advantage Auction",
	"Blood and Coconuts",
	"Split the Vote",
	"Fire Against Fire",
	"The Last Reward",
	"Final Tribal Council",
}

func SeedCastaways() []castaway.Castaway {
	return []castaway.Castaway{
		{ID: "cast-mira", SeasonID: SeasonIDEmberIsland, Name: "Mira Kessler", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-dario", SeasonID: SeasonIDEmberIsland, Name: "Dario Mantilla", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-june", SeasonID: SeasonIDEmberIsland, Name: "June Okafor", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-theo", SeasonID: SeasonIDEmberIsland, Name: "Theo Lindgren", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-priya", SeasonID: SeasonIDEmberIsland, Name: "Priya Raman", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-wes", SeasonID: SeasonIDEmberIsland, Name: "Wes Calloway", Tribe: "Kalea", Status: castaway.StatusActive},
		{ID: "cast-noor", SeasonID: SeasonIDEmberIsland, Name: "Noor Haddad", Tribe: "Tavita", Status: castaway.StatusActive},
		{ID: "cast-gabe", SeasonID: SeasonIDEmberIsland, Name: "Gabe Torrance", Tribe: "Tavita", Status: castaway.StatusActive},
		{ID: "cast-sofia", SeasonID: SeasonIDEmberIsland, Name: "Sofia Beaumont", Tribe: "Tavita", Status: castaway.StatusActive},
		{ID: "cast-kenji", SeasonID: SeasonIDEmberIsland, Name: "Kenji Watanabe", Tribe: "Tavita", Status: castaway.StatusActive},
		{ID: "cast-alma", SeasonID: SeasonIDEmberIsland, Name: "Alma Reyes", Tribe: "Tavita", Status: castaway.StatusActive},
		{ID: "cast-rory", SeasonID: SeasonIDEmberIsland, Name: "Rory Finnegan", Tribe: "Tavita", Status: castaway.StatusActive},
	}
}

func SeedScoringRules() []scoringrule.Rule {
	return []scoringrule.Rule{
		{ID: "rule-ep-survive", SeasonID: SeasonIDEmberIsland, Code: "EP_SURVIVE", Name: "Survives the episode", Category: scoringrule.CategorySurvival, Points: 2, SortOrder: 10, IsActive: true},
		{ID: "rule-imm-win", SeasonID: SeasonIDEmberIsland, Code: "IMM_WIN", Name: "Wins individual immunity", Category: scoringrule.CategoryChallenge, Points: 5, SortOrder: 20, IsActive: true},
		{ID: "rule-team-win", SeasonID: SeasonIDEmberIsland, Code: "TEAM_WIN", Name: "Tribe wins the challenge", Category: scoringrule.CategoryChallenge, Points: 3, SortOrder: 30, IsActive: true},
		{ID: "rule-idol-found", SeasonID: SeasonIDEmberIsland, Code: "IDOL_FOUND", Name: "Finds a hidden idol", Category: scoringrule.CategoryAdvantage, Points: 4, SortOrder: 40, IsActive: true},
		{ID: "rule-idol-play", SeasonID: SeasonIDEmberIsland, Code: "IDOL_PLAY", Name: "Plays an idol that negates votes", Category: scoringrule.CategoryAdvantage, Points: 6, SortOrder: 50, IsActive: true},
		{ID: "rule-jury-vote", SeasonID: SeasonIDEmberIsland, Code: "JURY_VOTE", Name: "Receives a jury vote", Category: scoringrule.CategoryJury, Points: 3, SortOrder: 60, IsActive: true},
		{ID: "rule-votes-against", SeasonID: SeasonIDEmberIsland, Code: "VOTES_AGAINST", Name: "Receives a vote at tribal", Category: scoringrule.CategoryPenalty, Points: -1, SortOrder: 70, IsActive: true},
		{ID: "rule-quit", SeasonID: SeasonIDEmberIsland, Code: "QUIT", Name: "Quits the game", Category: scoringrule.CategoryPenalty, Points: -10, SortOrder: 80, IsActive: true},
	}
}
