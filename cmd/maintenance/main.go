// Comando de manutenção do banco: schema e limpeza de pendências.
//
//	maintenance [-c config.yaml] <comando> [opções]
//
// Comandos: bootstrap, migrate, recreate-table, cleanup-project,
// cleanup-all, cleanup-everything, seed-master.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"obras/config"
	"obras/database"
	"obras/service"

	"github.com/joho/godotenv"
)

const usage = `uso: maintenance [-c config.yaml] <comando> [opções]

comandos:
  bootstrap                          cria tabelas ausentes e aplica passos aditivos
  migrate                            aplica as migrações registradas
  seed-master                        cria o master inicial se não houver nenhum
  recreate-table -tabela T -confirmar EXCLUIR
                                     apaga e recria uma tabela (dados perdidos)
  cleanup-project -obra N [-dry-run | -confirmar EXCLUIR]
  cleanup-all [-dry-run | -confirmar EXCLUIR]
  cleanup-everything [-dry-run | -confirmar EXCLUIR]
`

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "", "arquivo de configuração externo (opcional)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.MustLoadConfig(configFile)
	if err := database.Init(cfg); err != nil {
		log.Fatalf("falha ao inicializar o banco: %v", err)
	}

	if err := run(context.Background(), cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	table := fs.String("tabela", "", "tabela a recriar")
	projectID := fs.Uint("obra", 0, "id da obra")
	dryRun := fs.Bool("dry-run", false, "apenas relata, não exclui")
	confirm := fs.String("confirmar", "", "digite "+service.ConfirmationToken+" para executar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	confirmed := *confirm == service.ConfirmationToken
	db := database.DB.WithContext(ctx)

	switch cmd {
	case "bootstrap":
		return database.Bootstrap(db)
	case "migrate":
		return database.Migrate(db)
	case "seed-master":
		return database.SeedMaster(db, cfg.Bootstrap.MasterUsername, cfg.Bootstrap.MasterPassword)
	case "recreate-table":
		if err := database.RecreateTable(db, *table, confirmed); err != nil {
			return err
		}
		log.Printf("tabela %s recriada", *table)
		return nil
	}

	if !*dryRun && !confirmed {
		return fmt.Errorf("operação irreversível: use -confirmar %s ou -dry-run", service.ConfirmationToken)
	}
	svc := service.NewMaintenanceService(database.DB)

	var (
		rep service.CleanupReport
		err error
	)
	switch cmd {
	case "cleanup-project":
		if *projectID == 0 {
			return fmt.Errorf("informe -obra")
		}
		rep, err = svc.CleanupProjectPending(ctx, *projectID, *dryRun)
	case "cleanup-all":
		rep, err = svc.CleanupAllPending(ctx, *dryRun)
	case "cleanup-everything":
		rep, err = svc.CleanupEverythingPending(ctx, *dryRun)
	default:
		return fmt.Errorf("comando desconhecido %q", cmd)
	}
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(rep)
}
