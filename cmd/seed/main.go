// seed genera un script SQL para poblar el catálogo de repuestos a partir del
// CSV exportado por el sistema de escritorio anterior.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/007_seed_catalog.sql
//
// Columnas mínimas: part_number, name. Opcionales: category, shelf,
// unit_cost, unit_sell, min_stock, max_stock, target_stock. Los exports
// viejos vienen en ISO-8859-1; se detecta y convierte automáticamente.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type partRow struct {
	partNumber  string
	name        string
	category    string
	shelf       string
	unitCost    string
	unitSell    string
	minStock    int
	maxStock    int
	targetStock int
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	// BOM de UTF-8 primero; si el contenido no es UTF-8 válido asumimos
	// ISO-8859-1 (export del sistema viejo) y lo convertimos.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		raw, err = io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Convertir ISO-8859-1: %v\n", err)
			os.Exit(1)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if len(records) < 2 {
		fmt.Fprintln(os.Stderr, "CSV vacío: se esperaba cabecera más al menos una fila")
		os.Exit(1)
	}

	// Índice de columnas por nombre de cabecera
	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["part_number"]; !ok {
		fmt.Fprintln(os.Stderr, "CSV sin columna part_number")
		os.Exit(1)
	}
	if _, ok := col["name"]; !ok {
		fmt.Fprintln(os.Stderr, "CSV sin columna name")
		os.Exit(1)
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []partRow
	var rowErrors []string
	categories := make(map[string]bool)
	seen := make(map[string]int)

	for i, record := range records[1:] {
		line := i + 2 // fila real en el archivo, después de la cabecera
		r := partRow{
			partNumber: field(record, "part_number"),
			name:       field(record, "name"),
			category:   field(record, "category"),
			shelf:      field(record, "shelf"),
			unitCost:   field(record, "unit_cost"),
			unitSell:   field(record, "unit_sell"),
		}
		if r.partNumber == "" || r.name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("fila %d: falta part_number o name", line))
			continue
		}
		if prev, dup := seen[r.partNumber]; dup {
			rowErrors = append(rowErrors, fmt.Sprintf("fila %d: part_number %s repetido (ya visto en fila %d)", line, r.partNumber, prev))
			continue
		}
		seen[r.partNumber] = line

		ok := true
		for _, f := range []struct {
			name string
			val  string
		}{{"unit_cost", r.unitCost}, {"unit_sell", r.unitSell}} {
			if f.val == "" {
				continue
			}
			if _, err := strconv.ParseFloat(f.val, 64); err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("fila %d: %s no es un número: %q", line, f.name, f.val))
				ok = false
			}
		}
		r.minStock = parseIntField(field(record, "min_stock"), line, "min_stock", &rowErrors, &ok)
		r.maxStock = parseIntField(field(record, "max_stock"), line, "max_stock", &rowErrors, &ok)
		r.targetStock = parseIntField(field(record, "target_stock"), line, "target_stock", &rowErrors, &ok)
		if !ok {
			continue
		}
		if r.category != "" {
			categories[r.category] = true
		}
		rows = append(rows, r)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "007_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de repuestos ServiCampo\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))

	// 1. Categorías (orden estable)
	var catNames []string
	for name := range categories {
		catNames = append(catNames, name)
	}
	sort.Strings(catNames)
	if len(catNames) > 0 {
		out.WriteString("-- 1. Categorías\n")
		out.WriteString("INSERT INTO categories (name) VALUES\n")
		for i, name := range catNames {
			sep := ","
			if i == len(catNames)-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s')%s\n", escapeSQL(name), sep)
		}
		out.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
	}

	// 2. Repuestos, categoría resuelta por subquery; upsert por part_number
	out.WriteString("-- 2. Repuestos\n")
	for _, r := range rows {
		categorySel := "NULL"
		if r.category != "" {
			categorySel = fmt.Sprintf("(SELECT id FROM categories WHERE name = '%s')", escapeSQL(r.category))
		}
		fmt.Fprintf(out, "INSERT INTO parts (part_number, name, category_id, unit_cost, unit_sell, min_stock, max_stock, target_stock, shelf_location)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', %s, %s, %s, %d, %d, %d, %s)\n",
			escapeSQL(r.partNumber), escapeSQL(r.name), categorySel,
			numOrZero(r.unitCost), numOrZero(r.unitSell),
			r.minStock, r.maxStock, r.targetStock, strOrNull(r.shelf))
		out.WriteString("ON CONFLICT (part_number) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id,\n")
		out.WriteString("  unit_cost = EXCLUDED.unit_cost, unit_sell = EXCLUDED.unit_sell, min_stock = EXCLUDED.min_stock,\n")
		out.WriteString("  max_stock = EXCLUDED.max_stock, target_stock = EXCLUDED.target_stock, updated_at = now();\n")
	}

	fmt.Printf("Generado %s: %d categorías, %d repuestos, %d filas con error\n",
		outPath, len(catNames), len(rows), len(rowErrors))
	for i, e := range rowErrors {
		if i == 20 {
			fmt.Printf("  ... y %d errores más\n", len(rowErrors)-20)
			break
		}
		fmt.Println("  " + e)
	}
}

func parseIntField(val string, line int, name string, errs *[]string, ok *bool) int {
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Sprintf("fila %d: %s no es un entero válido: %q", line, name, val))
		*ok = false
		return 0
	}
	return n
}

func numOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func strOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
