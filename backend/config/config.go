package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	JWTSecret   string
	JWTTTLHours int
	ServerPort  string
	LogFormat   string
	CORSOrigins string

	RedisAddr     string
	RedisPassword string
	AMQPURL       string
	AMQPExchange  string

	Rewards Rewards
}

// Rewards holds the XP economy. Every service that credits XP reads it from here.
type Rewards struct {
	IntroXP               int
	VideoXP               int
	PracticeXP            int
	QuizPassPercent       float64
	LessonCompletionBonus int
}

func DefaultRewards() Rewards {
	return Rewards{
		IntroXP:               10,
		VideoXP:               15,
		PracticeXP:            25,
		QuizPassPercent:       70,
		LessonCompletionBonus: 15,
	}
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	defaults := DefaultRewards()

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "learning_platform"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		JWTTTLHours:   getEnvInt("JWT_TTL_HOURS", 72),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "learning.events"),
		Rewards: Rewards{
			IntroXP:               getEnvInt("XP_INTRO", defaults.IntroXP),
			VideoXP:               getEnvInt("XP_VIDEO", defaults.VideoXP),
			PracticeXP:            getEnvInt("XP_PRACTICE", defaults.PracticeXP),
			QuizPassPercent:       getEnvFloat("QUIZ_PASS_PERCENT", defaults.QuizPassPercent),
			LessonCompletionBonus: getEnvInt("LESSON_COMPLETION_BONUS", defaults.LessonCompletionBonus),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid number for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}
