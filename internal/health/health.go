// Package health reports whether storage is reachable and the required
// configuration is present.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"wealth/internal/config"
	"wealth/internal/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusError     = "error"
)

// Pinger runs a trivial liveness query against storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Unreachable stands in for storage that could not be opened. Every probe
// reports err.
func Unreachable(err error) Pinger {
	return unreachable{err: err}
}

type unreachable struct{ err error }

func (u unreachable) Ping(context.Context) error { return u.err }

// EnvStatus lists which configuration variables are set.
type EnvStatus struct {
	Present  []string `json:"present"`
	Optional []string `json:"optional"`
	Missing  []string `json:"missing"`
	IsValid  bool     `json:"isValid"`
}

// ErrorInfo describes a failure without leaking its internals.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name"`
}

// DatabaseStatus is the outcome of the storage liveness query.
type DatabaseStatus struct {
	Connected bool       `json:"connected"`
	Error     *ErrorInfo `json:"error"`
}

// Report is the health probe result.
type Report struct {
	Timestamp     string         `json:"timestamp"`
	Environment   string         `json:"environment"`
	EnvVariables  EnvStatus      `json:"env_variables"`
	Database      DatabaseStatus `json:"database"`
	OverallStatus string         `json:"overall_status"`
}

// Healthy reports whether both configuration and storage are fine.
func (r Report) Healthy() bool {
	return r.OverallStatus == StatusHealthy
}

// FailureReport is returned when the probe itself breaks.
type FailureReport struct {
	Timestamp     string    `json:"timestamp"`
	Environment   string    `json:"environment"`
	OverallStatus string    `json:"overall_status"`
	Error         ErrorInfo `json:"error"`
	BasicEnvCheck EnvStatus `json:"basic_env_check"`
}

// Checker runs the health probe.
type Checker struct {
	pinger    Pinger
	env       string
	lookupEnv func(string) (string, bool)
	now       func() time.Time
}

// NewChecker creates a Checker reading the process environment. pinger may
// be nil when no storage handle could be opened.
func NewChecker(pinger Pinger, env string) *Checker {
	return &Checker{
		pinger:    pinger,
		env:       env,
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}
}

// CheckEnv reports the required and optional variables. The DATABASE_URL
// requirement is also met by DB_HOST, from which the URL is assembled.
func (c *Checker) CheckEnv() EnvStatus {
	status := EnvStatus{
		Present:  []string{},
		Optional: []string{},
		Missing:  []string{},
	}
	for _, name := range config.RequiredEnv {
		if c.isSet(name) || (name == config.EnvDatabaseURL && c.isSet("DB_HOST")) {
			status.Present = append(status.Present, name)
		} else {
			status.Missing = append(status.Missing, name)
		}
	}
	for _, name := range config.OptionalEnv {
		if c.isSet(name) {
			status.Optional = append(status.Optional, name)
		}
	}
	status.IsValid = len(status.Missing) == 0
	return status
}

func (c *Checker) isSet(name string) bool {
	v, ok := c.lookupEnv(name)
	return ok && v != ""
}

// CheckDatabase runs the liveness query.
func (c *Checker) CheckDatabase(ctx context.Context) DatabaseStatus {
	if c.pinger == nil {
		return DatabaseStatus{Error: &ErrorInfo{Message: "database is not configured", Name: "ConfigError"}}
	}
	if err := c.pinger.Ping(ctx); err != nil {
		return DatabaseStatus{Error: describe(err)}
	}
	return DatabaseStatus{Connected: true}
}

// Check runs the full probe. It never fails: problems land in the report.
func (c *Checker) Check(ctx context.Context) Report {
	env := c.CheckEnv()
	db := c.CheckDatabase(ctx)

	status := StatusUnhealthy
	if env.IsValid && db.Connected {
		status = StatusHealthy
	}

	report := Report{
		Timestamp:     c.timestamp(),
		Environment:   c.env,
		EnvVariables:  env,
		Database:      db,
		OverallStatus: status,
	}
	if !report.Healthy() {
		logger.FromContext(ctx).Warnw("health check failed",
			"missing_env", env.Missing,
			"database_connected", db.Connected,
		)
	}
	return report
}

// Failure builds the report for a probe that panicked or errored.
func (c *Checker) Failure(err error) FailureReport {
	return FailureReport{
		Timestamp:     c.timestamp(),
		Environment:   c.env,
		OverallStatus: StatusError,
		Error:         *describe(err),
		BasicEnvCheck: c.CheckEnv(),
	}
}

// LogStatus writes the configuration status to the process log.
func (c *Checker) LogStatus() EnvStatus {
	status := c.CheckEnv()
	log := logger.Get()
	log.Infow("environment status",
		"env", c.env,
		"required_present", status.Present,
		"optional_present", status.Optional,
		"missing_required", status.Missing,
		"is_valid", status.IsValid,
	)
	if !status.IsValid {
		log.Errorw("missing required environment variables", "missing", status.Missing)
	}
	return status
}

func (c *Checker) timestamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

func describe(err error) *ErrorInfo {
	info := &ErrorInfo{Message: err.Error(), Name: fmt.Sprintf("%T", err)}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		info.Code = pgErr.Code
	}
	return info
}
