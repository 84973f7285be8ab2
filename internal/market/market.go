package market

import (
	"context"
	"errors"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

var ErrSymbolNotFound = errors.New("symbol not found")

// Source returns daily bars, oldest first, for one of the app's tickers
// (DXY, EURUSD, XAUUSD, ...). Adapters map these to their own symbols.
type Source interface {
	FetchBars(ctx context.Context, ticker string) ([]models.Bar, error)
	Name() string
}
