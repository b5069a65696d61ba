package tws

// Outbound message ids (client -> TWS).
const (
	msgPlaceOrder           = "3"
	msgReqPositions         = "61"
	msgReqAccountSummary    = "62"
	msgCancelAccountSummary = "63"
	msgCancelPositions      = "64"
	msgStartAPI             = "71"
)

// Inbound message ids (TWS -> client).
const (
	inOrderStatus       = "3"
	inErrMsg            = "4"
	inOpenOrder         = "5"
	inNextValidID       = "9"
	inManagedAccounts   = "15"
	inPosition          = "61"
	inPositionEnd       = "62"
	inAccountSummary    = "63"
	inAccountSummaryEnd = "64"
)

// Version range announced during the handshake. The server picks one and
// reports it back in the first frame.
const (
	minClientVersion = 100
	maxClientVersion = 157
)

// startAPI payload version.
const startAPIVersion = "2"

// Account-summary tags the gateway requests. The reader keeps whatever rows
// the venue sends back, so extending this list needs no parser change.
const accountSummaryTags = "NetLiquidation,TotalCashValue,BuyingPower,AvailableFunds,GrossPositionValue"
