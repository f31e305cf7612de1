// Command ledgerctl tareas operativas sobre el inventario: migrar el esquema, verificar el libro
// de stock contra el diario y emitir tokens de servicio.
package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

const poolKey = "pool"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (por defecto DB_* del entorno)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func openPool(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if url := c.String("db-url"); url != "" {
		cfg.DB.DatabaseURL = url
	}
	pool, err := postgres.NewPool(c.Context, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.App.Metadata[poolKey] = pool
	return nil
}

func closePool(c *cli.Context) error {
	if pool, ok := c.App.Metadata[poolKey].(*pgxpool.Pool); ok && pool != nil {
		pool.Close()
	}
	return nil
}

func poolFrom(c *cli.Context) *pgxpool.Pool {
	return c.App.Metadata[poolKey].(*pgxpool.Pool)
}

func main() {
	envErr := godotenv.Load(".env")
	// Los logs van a stderr: stdout queda para la salida de los comandos (p. ej. el token).
	log := logger.New(logger.Config{
		Env:     os.Getenv("APP_ENV"),
		Level:   os.Getenv("LOG_LEVEL"),
		Service: "ledgerctl",
		Out:     os.Stderr,
	})

	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("no se pudo cargar .env")
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("ledgerctl")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "ledgerctl",
		Usage:    "Operación del inventario multi-sede",
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Crear las tablas si no existen",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: openPool,
				After:  closePool,
				Action: runMigrate,
			},
			{
				Name:   "verify",
				Usage:  "Reproducir el diario y comparar cada celda del libro de stock",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: openPool,
				After:  closePool,
				Action: runVerify,
			},
			{
				Name:  "token",
				Usage: "Emitir un JWT firmado con JWT_SECRET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "user_id del actor", Required: true},
					&cli.StringFlag{Name: "role", Usage: "admin | bodeguero | vendedor", Value: "admin"},
					&cli.IntFlag{Name: "minutes", Usage: "Vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)"},
				},
				Action: runToken,
			},
		},
	}
}

func runMigrate(c *cli.Context) error {
	if err := postgres.Migrate(c.Context, poolFrom(c)); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "esquema al día")
	return nil
}

func runVerify(c *cli.Context) error {
	reconciler := inventory.NewReconciler(postgres.NewTxRunner(poolFrom(c)))
	res, err := reconciler.Verify(c.Context)
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "movimientos: %d, celdas: %d\n", res.Movements, res.Cells)
	if res.Consistent {
		fmt.Fprintln(w, "libro consistente")
		return nil
	}
	for _, d := range res.Discrepancies {
		fmt.Fprintf(w, "producto=%s sede=%s registrado=%d reconstruido=%d\n", d.ProductID, d.LocationID, d.Recorded, d.Replayed)
	}
	return cli.Exit(fmt.Sprintf("%d celdas no cuadran con el diario", len(res.Discrepancies)), 2)
}

func runToken(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	minutes := cfg.JWT.Expiration
	if c.IsSet("minutes") {
		minutes = c.Int("minutes")
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, c.String("user"), c.String("role"), cfg.JWT.Issuer, minutes)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, tok)
	return nil
}
