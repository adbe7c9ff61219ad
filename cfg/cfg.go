package cfg

import "time"

type (
	App struct {
		Name    string
		Version string
	}

	Mysql struct {
		Enabled               bool
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	GithubApi struct {
		AccessToken       string
		GraphqlUrl        string
		TrendingUrl       string
		RequestsPerSecond int
		ThrottleDelay     int // milliseconds
		TimeoutSec        int
	}

	// Trending là danh sách bộ lọc sẽ được crawl cho mỗi khoảng thời gian
	Trending struct {
		PopularLangs []string
		SpokenFilter bool
	}

	Archive struct {
		Dir     string
		Parquet bool
	}

	Scheduler struct {
		Interval      time.Duration
		PublishEvery  int
		PollInterval  time.Duration
		RepoPath      string
		CommitMessage string
	}

	KafkaProducer struct {
		TopicTrending string
	}

	Kafka struct {
		Enabled  bool
		Brokers  []string
		GroupID  string
		Producer KafkaProducer
	}

	ObjectStore struct {
		Enabled   bool
		Endpoint  string
		Region    string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	// Ui là HTTP server chỉ đọc: trạng thái scheduler, lịch sử trending, file archive
	Ui struct {
		Enabled bool
		Port    int
	}
)

type Config struct {
	App         App
	Mysql       Mysql
	GithubApi   GithubApi
	Trending    Trending
	Archive     Archive
	Scheduler   Scheduler
	Kafka       Kafka
	ObjectStore ObjectStore
	Ui          Ui
}
