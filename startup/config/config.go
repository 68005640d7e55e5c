package config

import "os"

type Config struct {
	Port                string
	CatConnectDBHost    string
	CatConnectDBPort    string
	AuthCacheHost       string
	AuthCachePort       string
	JaegerAddress       string
	SecretKey           string
	MailServer          string
	MailPort            string
	MailUsername        string
	MailPassword        string
	OpenCageKey         string
	StripeKey           string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
}

func NewConfig() *Config {
	return &Config{
		Port:                os.Getenv("CATCONNECT_SERVICE_PORT"),
		CatConnectDBHost:    os.Getenv("CATCONNECT_DB_HOST"),
		CatConnectDBPort:    os.Getenv("CATCONNECT_DB_PORT"),
		AuthCacheHost:       os.Getenv("AUTH_CACHE_HOST"),
		AuthCachePort:       os.Getenv("AUTH_CACHE_PORT"),
		JaegerAddress:       os.Getenv("JAEGER_ADDRESS"),
		SecretKey:           os.Getenv("SECRET_KEY"),
		MailServer:          os.Getenv("MAIL_SERVER"),
		MailPort:            os.Getenv("MAIL_PORT"),
		MailUsername:        os.Getenv("MAIL_USERNAME"),
		MailPassword:        os.Getenv("MAIL_PASSWORD"),
		OpenCageKey:         os.Getenv("OPENCAGE_API_KEY"),
		StripeKey:           os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:     os.Getenv("STRIPE_CANCEL_URL"),
	}
}
