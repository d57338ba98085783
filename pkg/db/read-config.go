package db

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

func DBConfigFromYamlObj(yamlObj DBConfigYaml) DBConfig {
	URI := fmt.Sprintf(`mongodb%s://%s:%s@%s`, yamlObj.ConnectionPrefix, yamlObj.Username, yamlObj.Password, yamlObj.ConnectionStr)

	return DBConfig{
		URI:             URI,
		DBName:          yamlObj.DBName,
		Timeout:         yamlObj.Timeout,
		MaxPoolSize:     uint64(yamlObj.MaxPoolSize),
		IdleConnTimeout: yamlObj.IdleConnTimeout,
	}
}

// SameDatabase reports whether two yaml configs resolve to the same
// database on the same server. Survey aggregations join the users and
// roles collections with $lookup, which cannot cross databases, so the
// survey and user configs must point at one shared database.
func SameDatabase(a DBConfigYaml, b DBConfigYaml) bool {
	return a.ConnectionStr == b.ConnectionStr &&
		a.ConnectionPrefix == b.ConnectionPrefix &&
		a.DBName == b.DBName
}

func ReadDBConfigFromEnv(
	dbLabel string,
	connectionStrEnv string,
	usernameEnv string,
	passwordEnv string,
	connectionPrefixEnv string,
	timeoutEnv string,
	idleConnTimeoutEnv string,
	maxPoolSizeEnv string,
	dbNameEnv string,
) DBConfig {
	connStr := os.Getenv(connectionStrEnv)
	username := os.Getenv(usernameEnv)
	password := os.Getenv(passwordEnv)
	prefix := os.Getenv(connectionPrefixEnv) // Used in test mode
	if connStr == "" || username == "" || password == "" {
		slog.Error("couldn't read DB credentials", slog.String("db", dbLabel))
		panic("couldn't read DB credentials")
	}
	URI := fmt.Sprintf(`mongodb%s://%s:%s@%s`, prefix, username, password, connStr)

	var err error
	Timeout, err := strconv.Atoi(os.Getenv(timeoutEnv))
	if err != nil {
		slog.Error("DB config could not parse timeout", slog.String("error", err.Error()), slog.String(timeoutEnv, os.Getenv(timeoutEnv)), slog.String("db", dbLabel))
		panic(err)
	}

	IdleConnTimeout, err := strconv.Atoi(os.Getenv(idleConnTimeoutEnv))
	if err != nil {
		slog.Error("DB config could not parse idle connection timeout", slog.String("error", err.Error()), slog.String(idleConnTimeoutEnv, os.Getenv(idleConnTimeoutEnv)), slog.String("db", dbLabel))
		panic(err)
	}

	mps, err := strconv.Atoi(os.Getenv(maxPoolSizeEnv))
	if err != nil {
		slog.Error("DB config could not parse max pool size", slog.String("error", err.Error()), slog.String(maxPoolSizeEnv, os.Getenv(maxPoolSizeEnv)), slog.String("db", dbLabel))
		panic(err)
	}
	MaxPoolSize := uint64(mps)

	dbName := os.Getenv(dbNameEnv)
	if dbName == "" {
		slog.Error("DB name not set", slog.String("db", dbLabel))
		panic("DB name not set")
	}

	return DBConfig{
		URI:             URI,
		DBName:          dbName,
		Timeout:         Timeout,
		MaxPoolSize:     MaxPoolSize,
		IdleConnTimeout: IdleConnTimeout,
	}
}
