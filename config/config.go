package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigYAML configuração padrão embutida no binário
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// devJWTSecret chave usada apenas fora do modo release
const devJWTSecret = "dev-secret-troque-em-producao"

// ErrMissingDBPassword senha do banco ausente
var ErrMissingDBPassword = errors.New("DB_PASSWORD não configurada")

// Config configuração da aplicação
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// ServerConfig configuração do servidor HTTP
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig configuração do banco e do pool de conexões
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// JWTConfig configuração do token
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig configuração SMTP
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AlertsConfig destinatários do resumo de alertas de compras
type AlertsConfig struct {
	Recipients []string `mapstructure:"recipients"`
}

// BootstrapConfig usuário master criado no primeiro start (ignorado sem senha)
type BootstrapConfig struct {
	MasterUsername string `mapstructure:"master_username"`
	MasterPassword string `mapstructure:"master_password"`
}

var (
	// GlobalConfig instância global, somente leitura após LoadConfig
	GlobalConfig *Config
)

// envAliases nomes de variáveis já usados nos ambientes de deploy
var envAliases = map[string][]string{
	"server.port":               {"PORT"},
	"server.allowed_origins":    {"ALLOWED_ORIGINS"},
	"database.driver":           {"DB_DRIVER"},
	"database.host":             {"DB_HOST"},
	"database.port":             {"DB_PORT"},
	"database.username":         {"DB_USER"},
	"database.password":         {"DB_PASSWORD"},
	"database.dbname":           {"DB_NAME"},
	"jwt.secret":                {"JWT_SECRET_KEY"},
	"bootstrap.master_password": {"MASTER_PASSWORD"},
	"bootstrap.master_username": {"MASTER_USERNAME"},
	"alerts.recipients":         {"ALERT_RECIPIENTS"},
}

// LoadConfig carrega a configuração.
// Prioridade: variáveis de ambiente > arquivo externo > padrão embutido
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração embutida: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("aviso: não foi possível ler %s: %v", configPath, err)
		} else {
			log.Printf("configuração externa carregada: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/obras")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("aviso: falha ao mesclar configuração externa: %v", err)
			} else {
				log.Printf("configuração externa carregada: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("OBRAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		args := append([]string{key, "OBRAS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("falha ao associar variável %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar configuração: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// normalize aplica padrões e valida campos obrigatórios
func (cfg *Config) normalize() error {
	if cfg.Database.Password == "" {
		return ErrMissingDBPassword
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if !strings.HasPrefix(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}

	// ALLOWED_ORIGINS chega como um único elemento separado por vírgulas
	var origins []string
	for _, o := range cfg.Server.AllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	cfg.Server.AllowedOrigins = origins

	if cfg.JWT.Secret == "" {
		if cfg.Server.Mode == "release" {
			return errors.New("JWT_SECRET_KEY obrigatória em modo release")
		}
		log.Printf("aviso: JWT_SECRET_KEY ausente, usando chave de desenvolvimento")
		cfg.JWT.Secret = devJWTSecret
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	return nil
}

// MustLoadConfig carrega a configuração ou entra em pânico
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("falha ao carregar configuração: %v", err))
	}
	return cfg
}

// SafeErrorMessage em release não expõe detalhes internos ao cliente
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig registra a configuração sem dados sensíveis
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("configuração atual:")
	log.Printf("  servidor: %s (modo: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  banco: %s://%s@%s:%s/%s",
		GlobalConfig.Database.Driver,
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  origens permitidas: %v", GlobalConfig.Server.AllowedOrigins)
	log.Printf("  e-mail: %v", GlobalConfig.Email.Enabled)
}
