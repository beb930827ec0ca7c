package core

// Categoria maps a short category key to a display label and chart color.
type Categoria struct {
	Key   string
	Label string
	Color string
}

// CategoriaOutras is the synthetic bucket for entries without a category.
const CategoriaOutras = "outras"

// CorPadrao is the chart color for keys outside the fixed table.
const CorPadrao = "#999999"

// Categorias is the fixed lookup table backing the finance forms and
// the dashboard charts. Unknown keys fall back to the raw key with the
// default color.
var Categorias = []Categoria{
	{Key: "salario", Label: "Salário/Trabalho", Color: "#4CAF50"},
	{Key: "casa", Label: "Casa", Color: "#2196F3"},
	{Key: "utilidades", Label: "Utilidades", Color: "#FF9800"},
	{Key: "alimentacao", Label: "Alimentação", Color: "#FF5722"},
	{Key: "transporte", Label: "Transporte", Color: "#9C27B0"},
	{Key: "parcelas", Label: "Créditos / Parcelas", Color: "#795548"},
	{Key: "mercado", Label: "Mercado", Color: "#3F51B5"},
	{Key: "saude", Label: "Saúde", Color: "#E91E63"},
	{Key: "tecnologia", Label: "Tecnologia", Color: "#00BCD4"},
	{Key: "lazer", Label: "Lazer", Color: "#FFC107"},
}

// CategoriaInfo resolves a key against the fixed table. Empty keys are
// attributed to the "outras" bucket; unrecognized keys keep the raw key
// as label with the default color.
func CategoriaInfo(key string) Categoria {
	if key == "" {
		key = CategoriaOutras
	}
	for _, c := range Categorias {
		if c.Key == key {
			return c
		}
	}
	return Categoria{Key: key, Label: key, Color: CorPadrao}
}
