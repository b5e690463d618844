package main

import "time"

type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=3000"`

	// BadgerFilepath empty means no durable backend: the service runs
	// on the bounded volatile stores alone.
	BadgerFilepath string `env:"BADGER_FILEPATH"`

	JwtSecret     string        `env:"JWT_SECRET,required=true"`
	TokenDuration time.Duration `env:"TOKEN_DURATION,default=168h"`

	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	// RoomScopedPresence scopes the online-users list to the room that
	// changed instead of broadcasting it deployment-wide.
	RoomScopedPresence bool `env:"ROOM_SCOPED_PRESENCE,default=false"`

	SmtpHost string `env:"SMTP_HOST"`
	SmtpPort int    `env:"SMTP_PORT,default=587"`
	SmtpUser string `env:"SMTP_USER"`
	SmtpPass string `env:"SMTP_PASS"`
	SmtpFrom string `env:"SMTP_FROM"`
}
