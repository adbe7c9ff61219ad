package cfg

import "time"

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "github-trending",
			Version: "0.0.1",
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "github_trending",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			GraphqlUrl:        "https://api.github.com/graphql",
			TrendingUrl:       "https://github.com/trending",
			RequestsPerSecond: 2,
			ThrottleDelay:     100,
			TimeoutSec:        30,
		},

		// Trending
		Trending: Trending{
			PopularLangs: []string{"Go", "Python", "JavaScript", "TypeScript", "Rust", "Java", "C++"},
			SpokenFilter: true,
		},

		// Archive
		Archive: Archive{
			Dir: "archive",
		},

		// Scheduler
		Scheduler: Scheduler{
			Interval:      time.Hour,
			PublishEvery:  3,
			PollInterval:  time.Second,
			RepoPath:      ".",
			CommitMessage: "crawler auto commit",
		},

		// Kafka
		Kafka: Kafka{
			Brokers: []string{"127.0.0.1:9092"},
			GroupID: "trending-consumer-group",
			Producer: KafkaProducer{
				TopicTrending: "github-trending",
			},
		},

		// Ui
		Ui: Ui{
			Port: 8080,
		},
	}, nil
}
