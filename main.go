package main

import (
	"flag"
	"log"
	"strings"

	"obras/config"
	"obras/database"
	"obras/middleware"
	"obras/router"

	"github.com/joho/godotenv"
)

// @title Gestão de Obras API
// @version 1.0
// @description Obras, lançamentos, empreitadas, compras, cronograma, notas fiscais e usuários com acesso por obra
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	skipMigrate bool
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "arquivo de configuração externo (opcional)")
	flag.StringVar(&configFile, "c", "", "arquivo de configuração externo (atalho)")
	flag.StringVar(&port, "port", "", "porta HTTP, ex.: 5000 ou :5000")
	flag.StringVar(&port, "p", "", "porta HTTP (atalho)")
	flag.BoolVar(&skipMigrate, "skip-migrate", false, "não aplica migrações na inicialização")
	flag.BoolVar(&showVersion, "version", false, "mostra a versão")
	flag.BoolVar(&showVersion, "v", false, "mostra a versão (atalho)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("gestão de obras v1.0.0")
		return
	}

	// .env é opcional; variáveis já exportadas têm precedência
	if err := godotenv.Load(); err == nil {
		log.Println("variáveis carregadas de .env")
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("falha ao carregar configuração: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("porta definida na linha de comando: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("falha ao inicializar o banco: %v", err)
	}

	if !skipMigrate {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if err := database.SeedMaster(database.DB, cfg.Bootstrap.MasterUsername, cfg.Bootstrap.MasterPassword); err != nil {
		log.Fatalf("%v", err)
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  gestão de obras em execução")
	log.Printf("==========================================")
	log.Printf("  API:      http://localhost%s/", cfg.Server.Port)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  Métricas: http://localhost%s/metrics", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("falha ao iniciar o servidor: %v", err)
	}
}
