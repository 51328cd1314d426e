package dto

type AddSecretRequest struct {
	DomainName string `json:"domain_name"`
	Password   string `json:"password"`
	Link       string `json:"link"`
}

type VerifyFaceResponse struct {
	Match    bool    `json:"match"`
	Distance float64 `json:"distance"`
}
