package types

type Bar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// Bias is the directional classification of a symbol's short-term trend.
type Bias string

const (
	BiasBullish Bias = "Bullish"
	BiasBearish Bias = "Bearish"
	BiasNeutral Bias = "Neutral"
)

// Direction of a proposed breakout trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// PendingStatus is the lifecycle state of a queued entry.
// waiting -> entered (confirmed) or waiting -> removed (stale).
type PendingStatus string

const (
	StatusWaiting PendingStatus = "waiting"
	StatusEntered PendingStatus = "entered"
	StatusRemoved PendingStatus = "removed"
)

// Trade outcome categories.
const (
	OutcomeWin     = "Win"
	OutcomeLoss    = "Loss"
	OutcomeNeutral = "Neutral"
	OutcomeUnknown = "Unknown"
	OutcomeError   = "Error"
)

// PendingEntry is one row of the pending-entry ledger. Fields are kept
// as the stored strings so rows round-trip the CSV file exactly;
// timestamps are RFC 3339 and prices are 2-decimal strings.
type PendingEntry struct {
	Symbol         string
	DateLogged     string
	Trend          string
	SignalTime     string
	SignalHigh     string
	SignalLow      string
	VWAP           string
	Direction      string
	TriggerPrice   string
	EntryCondition string
	Status         PendingStatus
	EntryTime      string
	EntryPrice     string
	Notes          string
}

// Trade is one row of the trade ledger. A trade with an empty ExitTime
// is open.
type Trade struct {
	Symbol       string
	EntryTime    string
	EntryPrice   string
	Buffer       string
	Rationale    string
	Expectation  string
	SignalTime   string
	TrendAtEntry string
	ExitTime     string
	ExitPrice    string
	ChangePct    string
	Outcome      string
	Notes        string
}

// Open reports whether the trade has not been exited yet.
func (t Trade) Open() bool {
	return t.ExitTime == ""
}

// PredictionRecord is one append-only audit row per evaluation cycle per
// symbol. Never mutated after write.
type PredictionRecord struct {
	Timestamp   string
	Symbol      string
	Trend       string
	EMA         string
	VWAPSignal  string
	MACD        string
	RSI         string
	VolumeSpike string
	SignalHigh  string
	SignalLow   string
	SignalVWAP  string
}
