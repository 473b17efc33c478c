package relay

// RelayRequest is the externally supplied, pre-signed description of the
// contract call a third party wants sponsored. It is treated as immutable
// input; this service never mutates or re-encodes the caller's copy.
type RelayRequest struct {
	Request   ForwardRequest `json:"request"`
	RelayData RelayData      `json:"relayData"`
}

// ForwardRequest describes the inner contract call.
type ForwardRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Gas   string `json:"gas"`
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// RelayData carries the sponsorship parameters of the relay request.
type RelayData struct {
	GasPrice      string `json:"gasPrice"`
	PctRelayFee   string `json:"pctRelayFee"`
	BaseRelayFee  string `json:"baseRelayFee"`
	RelayWorker   string `json:"relayWorker"`
	Paymaster     string `json:"paymaster"`
	PaymasterData string `json:"paymasterData"`
	ClientID      string `json:"clientId"`
	Forwarder     string `json:"forwarder"`
}
