package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, int64(15000), cfg.ExpressShippingFee)
	assert.Equal(t, "15000", cfg.ShippingFee().String())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "order-events", cfg.KafkaTopic)
	assert.False(t, cfg.SMTPEnabled())
	assert.False(t, cfg.KafkaEnabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EXPRESS_SHIPPING_FEE", "20000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "shop")

	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, "20000", cfg.ShippingFee().String())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "shop.db", cfg.DSN())
}

func TestDSNMySQL(t *testing.T) {
	cfg := Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.DBDSN = "custom"
	assert.Equal(t, "custom", cfg.DSN())
}

func TestInitDBSqlite(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", DBDSN: "file:config_test?mode=memory&cache=shared"}
	db, err := InitDB(cfg)
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
