package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Ticket credential signing key (separate from auth tokens)
	TicketSecret string

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Razorpay Keys
	RazorpayKey    string
	RazorpaySecret string

	// ✅ Kafka Config
	KafkaBrokers         string
	KafkaAttendanceTopic string

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// ✅ FCM Config
	FCMCredentialsPath string // Path to Firebase service account JSON
	FCMProjectID       string // Firebase Project ID (optional, can be in JSON)
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	if accessTTL == 0 {
		accessTTL = 24
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	kafkaTopic := os.Getenv("KAFKA_ATTENDANCE_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "attendance-events"
	}

	return &Config{
		Port: os.Getenv("PORT"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: accessTTL,

		TicketSecret: os.Getenv("TICKET_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		RazorpayKey:    os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		KafkaBrokers:         os.Getenv("KAFKA_BROKERS"),
		KafkaAttendanceTopic: kafkaTopic,

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  os.Getenv("SMTP_FROM_NAME"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),
	}
}
