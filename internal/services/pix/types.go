package pix

// Charge is the caller-facing result of creating a Pix charge. The student
// pays via the copy-paste code or QR; the gateway later confirms by charge
// id.
type Charge struct {
	ChargeID      string `json:"chargeId"`
	Provider      string `json:"provider"`
	AmountCents   int64  `json:"amountCents"`
	StudentID     uint   `json:"studentId"`
	CopyPasteCode string `json:"pixCopiaCola"`
	QRCodeURL     string `json:"qrCodeImageUrl"`
	Status        string `json:"status"`
}

// ConfirmResult reports what a webhook confirmation did.
type ConfirmResult struct {
	ChargeID         string `json:"chargeId"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}
