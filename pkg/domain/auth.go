package domain

// Tax document types accepted at registration.
const (
	TaxIDCNPJ = "CNPJ"
	TaxIDCPF  = "CPF"
)

// User is the authenticated store profile.
type User struct {
	StoreID   int64  `json:"storeId"`
	TradeName string `json:"tradeName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	StoreID   int64  `json:"storeId"`
	TradeName string `json:"tradeName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// User extracts the profile portion of an auth response.
func (r AuthResponse) User() User {
	return User{
		StoreID:   r.StoreID,
		TradeName: r.TradeName,
		Email:     r.Email,
		Role:      r.Role,
	}
}

// TaxIDTypeFor infers the document type from the tax id:
// 14 digits is a CNPJ, anything else is treated as a CPF.
// Format validation happens separately at the form layer.
func TaxIDTypeFor(taxID string) string {
	if len(taxID) == 14 {
		return TaxIDCNPJ
	}
	return TaxIDCPF
}
