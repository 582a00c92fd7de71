package domain

import "time"

// SMTPConfig is a saved outbound server configuration. Password is never
// serialized.
type SMTPConfig struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Host      string    `json:"host" db:"host"`
	Port      int       `json:"port" db:"port"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	UseTLS    bool      `json:"use_tls" db:"use_tls"`
	UseSSL    bool      `json:"use_ssl" db:"use_ssl"`
	FromEmail string    `json:"from_email" db:"from_email"`
	FromName  string    `json:"from_name" db:"from_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SMTPTestResult is the body of POST /smtp-config/{id}/test.
type SMTPTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
