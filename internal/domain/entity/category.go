package entity

// Ascendencia del catálogo para la cascada de preferencias: cada repuesto
// referencia (opcionalmente) una categoría, un estilo y un tipo.

// Category agrupación mayor del catálogo (ej. "Eléctrico").
type Category struct {
	ID   int64
	Name string
}

// Style subdivisión de una categoría (ej. "Tomacorrientes").
type Style struct {
	ID         int64
	Name       string
	CategoryID int64
}

// PartType subdivisión de un estilo (ej. "GFCI 20A").
type PartType struct {
	ID      int64
	Name    string
	StyleID int64
}
