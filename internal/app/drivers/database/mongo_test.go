package database

import (
	"healnexus-service/internal/app/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://localhost:27017", mongoURI(config.MongoDB{Host: "localhost", Port: "27017"}))
	assert.Equal(t, "mongodb://root:secret@db:27018", mongoURI(config.MongoDB{Host: "db", Port: "27018", Username: "root", Password: "secret"}))
}
