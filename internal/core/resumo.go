package core

// SomaTipo is one row of the per-type SUM(valor) GROUP BY tipo query.
type SomaTipo struct {
	Tipo     TipoLancamento
	Centavos int64
}

// SomaCategoria is one row of the SUM(valor) GROUP BY categoria, tipo query.
type SomaCategoria struct {
	Categoria string
	Tipo      TipoLancamento
	Centavos  int64
}

// Totais holds the ledger-wide income and expense totals.
type Totais struct {
	Entrada Money
	Saida   Money
}

// GraficoCategorias is the per-category chart feed: three parallel
// sequences of labels, signed net values in reais and display colors.
type GraficoCategorias struct {
	Labels []string
	Values []float64
	Colors []string
}

// Resumo is the aggregate consumed by the dashboard chart widgets.
type Resumo struct {
	Totais       Totais
	PorCategoria GraficoCategorias
}

// BuildResumo combines the grouped sums of a user's ledger into the
// dashboard aggregate. Entradas contribute positively to a category's
// net total, saídas negatively. The per-category result is seeded from
// the fixed table so known categories keep stable labels and colors;
// unknown keys are added on the fly in first-seen order. Categories
// whose signed net is exactly zero are omitted.
func BuildResumo(porTipo []SomaTipo, porCategoria []SomaCategoria) Resumo {
	var r Resumo
	for _, t := range porTipo {
		switch t.Tipo {
		case TipoEntrada:
			r.Totais.Entrada.Centavos += t.Centavos
		case TipoSaida:
			r.Totais.Saida.Centavos += t.Centavos
		}
	}

	type bucket struct {
		label    string
		color    string
		centavos int64
	}
	buckets := make(map[string]*bucket, len(Categorias))
	order := make([]string, 0, len(Categorias))
	for _, c := range Categorias {
		buckets[c.Key] = &bucket{label: c.Label, color: c.Color}
		order = append(order, c.Key)
	}

	for _, g := range porCategoria {
		key := g.Categoria
		if key == "" {
			key = CategoriaOutras
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: key, color: CorPadrao}
			buckets[key] = b
			order = append(order, key)
		}
		if g.Tipo == TipoEntrada {
			b.centavos += g.Centavos
		} else {
			b.centavos -= g.Centavos
		}
	}

	for _, key := range order {
		b := buckets[key]
		if b.centavos == 0 {
			continue
		}
		r.PorCategoria.Labels = append(r.PorCategoria.Labels, b.label)
		r.PorCategoria.Values = append(r.PorCategoria.Values, Money{Centavos: b.centavos}.Reais())
		r.PorCategoria.Colors = append(r.PorCategoria.Colors, b.color)
	}
	return r
}
