package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/model"
)

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) ListPharmacies(ctx context.Context) ([]model.Pharmacy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pharmacy), args.Error(1)
}

func (m *MockInventory) ListInStockMedicines(ctx context.Context) ([]model.Medicine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", "knowledge")
}

func TestBuildExactText(t *testing.T) {
	inv := new(MockInventory)
	inv.On("ListPharmacies", mock.Anything).Return([]model.Pharmacy{
		{Name: "ABC Pharmacy", Address: "123 Main St", Phone: "555-0100"},
	}, nil)
	inv.On("ListInStockMedicines", mock.Anything).Return([]model.Medicine{
		{Name: "Paracetamol", Brand: "Calpol", Category: "Painkiller", SellingPrice: 20, Stock: 5},
	}, nil)

	b := NewBuilder(inv, testLogger())
	snap := b.Build(context.Background())

	require.True(t, snap.Available())
	expected := "AVAILABLE PHARMACIES:\n" +
		"- ABC Pharmacy at 123 Main St (Phone: 555-0100)\n" +
		"\n" +
		"AVAILABLE MEDICINES:\n" +
		"- Paracetamol (Calpol) - Painkiller: ₹20 (Stock: 5)\n"
	assert.Equal(t, expected, snap.Text)
	assert.Equal(t, expected, b.BuildText(context.Background()))
	inv.AssertExpectations(t)
}

func TestBuildLineCountsAndOrder(t *testing.T) {
	for _, tc := range []struct{ n, m int }{{0, 0}, {1, 0}, {0, 3}, {4, 7}} {
		t.Run(fmt.Sprintf("%d_pharmacies_%d_medicines", tc.n, tc.m), func(t *testing.T) {
			pharmacies := make([]model.Pharmacy, tc.n)
			for i := range pharmacies {
				pharmacies[i] = model.Pharmacy{Name: fmt.Sprintf("P%d", i), Address: "Addr", Phone: "1"}
			}
			medicines := make([]model.Medicine, tc.m)
			for i := range medicines {
				medicines[i] = model.Medicine{Name: fmt.Sprintf("M%d", i), Brand: "B", Category: "C", SellingPrice: 1.5, Stock: i + 1}
			}

			text := Format(pharmacies, medicines)
			parts := strings.SplitN(text, "\nAVAILABLE MEDICINES:\n", 2)
			require.Len(t, parts, 2)

			pharmacyLines := strings.Split(strings.TrimPrefix(parts[0], "AVAILABLE PHARMACIES:\n"), "\n")
			pharmacyLines = pharmacyLines[:len(pharmacyLines)-1]
			medicineLines := strings.Split(parts[1], "\n")
			medicineLines = medicineLines[:len(medicineLines)-1]

			assert.Len(t, pharmacyLines, tc.n)
			assert.Len(t, medicineLines, tc.m)
			for i, line := range pharmacyLines {
				assert.Equal(t, fmt.Sprintf("- P%d at Addr (Phone: 1)", i), line)
			}
			for i, line := range medicineLines {
				assert.Equal(t, fmt.Sprintf("- M%d (B) - C: ₹1.5 (Stock: %d)", i, i+1), line)
			}
		})
	}
}

func TestFormatSkipsOutOfStock(t *testing.T) {
	text := Format(nil, []model.Medicine{
		{Name: "Ibuprofen", Brand: "Brufen", Category: "Painkiller", SellingPrice: 35.75, Stock: 0},
		{Name: "Cetirizine", Brand: "Zyrtec", Category: "Antihistamine", SellingPrice: 12, Stock: 2},
	})

	assert.NotContains(t, text, "Ibuprofen")
	assert.Contains(t, text, "- Cetirizine (Zyrtec) - Antihistamine: ₹12 (Stock: 2)\n")
}

func TestBuildPharmacyFailure(t *testing.T) {
	inv := new(MockInventory)
	inv.On("ListPharmacies", mock.Anything).Return(nil, errors.New("connection refused"))

	b := NewBuilder(inv, testLogger())
	snap := b.Build(context.Background())

	assert.False(t, snap.Available())
	assert.Equal(t, "Error loading data: connection refused", snap.String())
	assert.True(t, strings.HasPrefix(b.BuildText(context.Background()), ErrorPrefix))
	inv.AssertNotCalled(t, "ListInStockMedicines", mock.Anything)
}

func TestBuildMedicineFailure(t *testing.T) {
	inv := new(MockInventory)
	inv.On("ListPharmacies", mock.Anything).Return([]model.Pharmacy{}, nil)
	inv.On("ListInStockMedicines", mock.Anything).Return(nil, errors.New("decoding medicines response: unexpected EOF"))

	text := NewBuilder(inv, testLogger()).BuildText(context.Background())
	assert.Equal(t, "Error loading data: decoding medicines response: unexpected EOF", text)
}
