// import_items carga el catálogo inicial de items (y opcionalmente su existencia inicial)
// desde una hoja XLSX o un CSV.
//
// Uso: go run ./cmd/import_items [-location BOD-01] [-latin1] catalogo.xlsx|catalogo.csv
//
// Columnas (con encabezado): code, description, serial, category, process, quantity.
// Los códigos que ya existen se omiten. Si hay -location y quantity > 0 se registra una entrada (IN).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var importActor = entity.Actor{UserID: "import_items", Role: entity.RoleAdmin}

// maxAttempts intentos por entrada cuando otra escritura tiene el par bloqueado.
const maxAttempts = 3

type row struct {
	line     int
	item     dto.CreateItemRequest
	quantity decimal.Decimal
}

func main() {
	locationCode := flag.String("location", "", "código de la ubicación para la existencia inicial")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_items [-location CODE] [-latin1] archivo.xlsx|archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_items"})

	rows, err := readRows(flag.Arg(0), *latin1)
	if err != nil {
		log.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("leer archivo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout)
	items := postgres.NewItemRepository(pool)
	locations := postgres.NewLocationRepository(pool)
	ledger := inventory.NewStockLedger(txRunner, items, locations, postgres.NewBalanceRepository(pool))
	recorder := inventory.NewMovementRecorder(ledger, txRunner, lock.NewKeyLocker(cfg.Ledger.LockTimeout),
		postgres.NewMovementRepository(pool), nil, log)
	itemUC := usecase.NewItemUseCase(items, txRunner)
	inventoryUC := usecase.NewInventoryUseCase(recorder, ledger, locations)

	var locationID string
	if *locationCode != "" {
		loc, err := locations.GetByCode(ctx, *locationCode)
		if err != nil || loc == nil {
			log.Fatal().Err(err).Str("location", *locationCode).Msg("ubicación no encontrada")
		}
		locationID = loc.ID
	}

	var created, skipped, failed int
	for _, r := range rows {
		it, err := itemUC.Create(ctx, r.item)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			continue
		case err != nil:
			failed++
			log.Warn().Err(err).Int("line", r.line).Str("code", r.item.Code).Msg("item no creado")
			continue
		}
		created++
		if locationID == "" || !r.quantity.IsPositive() {
			continue
		}
		in := dto.MovementRequest{
			ItemID:     it.ID,
			LocationID: locationID,
			Quantity:   r.quantity,
			Comment:    "existencia inicial (importación)",
		}
		for attempt := 1; ; attempt++ {
			_, err = inventoryUC.RegisterIn(ctx, importActor, in)
			if !inventory.IsRetryable(err) || attempt == maxAttempts {
				break
			}
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}
		if err != nil {
			failed++
			log.Warn().Err(err).Int("line", r.line).Str("code", r.item.Code).Msg("existencia inicial no registrada")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Int("failed", failed).Msg("importación terminada")
}

// readRows lee las filas de datos según la extensión del archivo.
func readRows(path string, latin1 bool) ([]row, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		records, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, err
		}
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		var r io.Reader = file
		if latin1 {
			r = transform.NewReader(file, charmap.ISO8859_1.NewDecoder())
		}
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		records, err = cr.ReadAll()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("formato no soportado %q (xlsx|csv)", filepath.Ext(path))
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("el archivo no tiene filas de datos")
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["code"]; !ok {
		return nil, fmt.Errorf("falta la columna code")
	}
	get := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := make([]row, 0, len(records)-1)
	for n, rec := range records[1:] {
		code := get(rec, "code")
		if code == "" {
			continue
		}
		r := row{
			line: n + 2,
			item: dto.CreateItemRequest{
				Code:        code,
				Description: get(rec, "description"),
				Serial:      get(rec, "serial"),
				Category:    get(rec, "category"),
				Process:     get(rec, "process"),
			},
		}
		if q := get(rec, "quantity"); q != "" {
			qty, err := decimal.NewFromString(strings.ReplaceAll(q, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("línea %d: cantidad inválida %q", r.line, q)
			}
			r.quantity = qty
		}
		out = append(out, r)
	}
	return out, nil
}
