package model

// Pharmacy representa uma linha da tabela "pharmacies"
type Pharmacy struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Medicine representa uma linha da tabela "medicines"
type Medicine struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	SellingPrice float64 `json:"selling_price"`
	Stock        int     `json:"stock"`
}

// InStock indica se o medicamento tem estoque positivo
func (m Medicine) InStock() bool {
	return m.Stock > 0
}
