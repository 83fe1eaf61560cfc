package domain

// BlockSubtype tags a block submitted to the ledger.
type BlockSubtype string

const (
	SubtypeSend    BlockSubtype = "send"
	SubtypeReceive BlockSubtype = "receive"
)

// SendBlock is the unsigned description of a send, handed to the signer.
type SendBlock struct {
	WalletBalanceRaw      string
	FromAddress           string
	ToAddress             string
	RepresentativeAddress string
	Frontier              string
	AmountRaw             string
	Work                  string
}

// ReceiveBlock is the unsigned description of a receive, handed to the
// signer. Frontier is ZeroFrontier when the receive opens the account.
type ReceiveBlock struct {
	WalletBalanceRaw      string
	ToAddress             string
	RepresentativeAddress string
	Frontier              string
	TransactionHash       string
	AmountRaw             string
	Work                  string
}

// SignedBlock is a state block ready to be processed by the ledger.
type SignedBlock struct {
	Type           string `json:"type"`
	Account        string `json:"account"`
	Previous       string `json:"previous"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"`
	Link           string `json:"link"`
	LinkAsAccount  string `json:"link_as_account,omitempty"`
	Signature      string `json:"signature"`
	Work           string `json:"work"`
}

// ProcessResult is the ledger answer to a block submission. Hash is empty
// when the ledger rejected the block.
type ProcessResult struct {
	Hash  string `json:"hash"`
	Error string `json:"error,omitempty"`
}
