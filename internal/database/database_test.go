package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xyrille1/SuiCare/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "sui", Password: "secret", DBName: "suicare", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=sui password=secret dbname=suicare sslmode=disable", dsn)
}
