package driven

import "context"

// TokenRequest carries everything needed for an OAuth password-grant token
// exchange against the identity provider.
type TokenRequest struct {
	// TokenURL is the token endpoint.
	TokenURL string

	// ClientID and ClientSecret identify the calling service.
	ClientID     string
	ClientSecret string

	// Scope is the requested OAuth scope, if any.
	Scope string

	// Username and Password are the resource owner credentials.
	Username string
	Password string
}

// Account is a bank account payload as returned by the accounts endpoint.
// Amounts are cents-as-integer; timestamps are ISO-8601.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Type        string `json:"type"`
	Currency    string `json:"currency"`
	BalanceCents *int64 `json:"balanceCents"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Transaction is a transaction payload as returned by the transactions
// endpoint. Amounts are cents-as-integer; timestamps are ISO-8601.
type Transaction struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	AmountCents *int64 `json:"amountCents"`
	Currency    string `json:"currency"`
	Merchant    string `json:"merchant"`
	Category    string `json:"category"`
	OccurredAt  string `json:"occurredAt"`
	Note        string `json:"note"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// BankAPI fetches account and transaction data from the remote bank
// endpoints. All calls are synchronous with bounded timeouts.
type BankAPI interface {
	// FetchToken performs the password-grant token exchange and returns
	// the access token.
	FetchToken(ctx context.Context, req TokenRequest) (string, error)

	// FetchAccounts retrieves all accounts using the access token.
	FetchAccounts(ctx context.Context, url, accessToken string) ([]Account, error)

	// FetchTransactions retrieves all transactions using the access token.
	FetchTransactions(ctx context.Context, url, accessToken string) ([]Transaction, error)
}
