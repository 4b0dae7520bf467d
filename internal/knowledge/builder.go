// Package knowledge monta a base de conhecimento em texto a partir das
// farmácias e dos medicamentos em estoque.
package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/model"
)

// ErrorPrefix precede o texto usado no lugar da base quando a leitura falha
const ErrorPrefix = "Error loading data: "

// Inventory é a fonte dos registros (implementada por datastore.Client)
type Inventory interface {
	ListPharmacies(ctx context.Context) ([]model.Pharmacy, error)
	ListInStockMedicines(ctx context.Context) ([]model.Medicine, error)
}

// Source produz um Snapshot da base de conhecimento
type Source interface {
	Build(ctx context.Context) Snapshot
}

// Snapshot é o resultado de uma montagem: disponível (Text) ou
// indisponível (Err).
type Snapshot struct {
	Text    string
	Err     error
	BuiltAt time.Time
}

// Available indica se os dados foram carregados
func (s Snapshot) Available() bool {
	return s.Err == nil
}

// String retorna o texto da base, ou a mensagem de erro que o substitui
func (s Snapshot) String() string {
	if s.Err != nil {
		return ErrorPrefix + s.Err.Error()
	}
	return s.Text
}

// Builder consulta o inventário e formata o texto
type Builder struct {
	inventory Inventory
	logger    *logrus.Entry
	now       func() time.Time
}

// NewBuilder cria um Builder sobre o inventário informado
func NewBuilder(inventory Inventory, logger *logrus.Entry) *Builder {
	return &Builder{
		inventory: inventory,
		logger:    logger,
		now:       time.Now,
	}
}

// Build executa as duas consultas em sequência. Falhas nunca são
// propagadas: ficam registradas no Snapshot.
func (b *Builder) Build(ctx context.Context) Snapshot {
	pharmacies, err := b.inventory.ListPharmacies(ctx)
	if err != nil {
		return b.unavailable(err)
	}

	medicines, err := b.inventory.ListInStockMedicines(ctx)
	if err != nil {
		return b.unavailable(err)
	}

	b.logger.WithFields(logrus.Fields{
		"pharmacies": len(pharmacies),
		"medicines":  len(medicines),
	}).Debug("Knowledge base built")

	return Snapshot{
		Text:    Format(pharmacies, medicines),
		BuiltAt: b.now(),
	}
}

// BuildText retorna sempre um texto: a base ou "Error loading data: ..."
func (b *Builder) BuildText(ctx context.Context) string {
	return b.Build(ctx).String()
}

func (b *Builder) unavailable(err error) Snapshot {
	b.logger.WithError(err).Warn("Failed to load knowledge base")
	return Snapshot{Err: err, BuiltAt: b.now()}
}

// Format serializa os registros na ordem recebida
func Format(pharmacies []model.Pharmacy, medicines []model.Medicine) string {
	var sb strings.Builder

	sb.WriteString("AVAILABLE PHARMACIES:\n")
	for _, p := range pharmacies {
		fmt.Fprintf(&sb, "- %s at %s (Phone: %s)\n", p.Name, p.Address, p.Phone)
	}

	sb.WriteString("\nAVAILABLE MEDICINES:\n")
	for _, m := range medicines {
		if !m.InStock() {
			continue
		}
		fmt.Fprintf(&sb, "- %s (%s) - %s: ₹%s (Stock: %d)\n",
			m.Name, m.Brand, m.Category, formatPrice(m.SellingPrice), m.Stock)
	}

	return sb.String()
}

// formatPrice usa a menor representação decimal: 20, 20.5
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
