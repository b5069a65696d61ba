package tws

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/domain"
	"github.com/ibgate/ibgate/internal/venue"
	"github.com/ibgate/ibgate/pkg/sigchan"
)

var log = logrus.WithField("component", "tws")

// Config bounds the client's waits. Zero values fall back to defaults.
type Config struct {
	DialTimeout    time.Duration
	ConnectTimeout time.Duration // handshake + first NextValidID
	AckTimeout     time.Duration // order acknowledgment wait
	QueryTimeout   time.Duration // positions / account-summary collection
}

// DefaultConfig returns the stock timeouts.
func DefaultConfig() Config {
	return Config{
		DialTimeout:    5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		AckTimeout:     5 * time.Second,
		QueryTimeout:   10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DialTimeout <= 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.AckTimeout <= 0 {
		c.AckTimeout = d.AckTimeout
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = d.QueryTimeout
	}
	return c
}

type ackEvent struct {
	status   string
	reason   string
	rejected bool
}

type posResult struct {
	positions []domain.Position
	err       error
}

type sumRequest struct {
	rows []domain.AccountValue
	done chan error
}

// Client is the TCP client for one TWS / IB Gateway endpoint. It satisfies
// venue.Venue. One reader goroutine owns the inbound stream and dispatches
// frames to whichever call is waiting.
type Client struct {
	cfg Config

	mu        sync.Mutex // connection state transitions
	conn      net.Conn
	connected bool
	clientID  int

	writeMu sync.Mutex // frames must not interleave

	serverVersion int
	account       string
	readyC        *sigchan.Chan

	idMu        sync.Mutex
	nextOrderID int
	nextReqID   int

	pendingMu sync.Mutex
	acks      map[int]chan ackEvent
	posBuf    []domain.Position
	posReq    chan posResult // non-nil while a positions request is in flight
	sumReqs   map[int]*sumRequest
}

// NewClient creates a disconnected client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:       cfg.withDefaults(),
		nextReqID: 1,
		acks:      make(map[int]chan ackEvent),
		sumReqs:   make(map[int]*sumRequest),
	}
}

// Connect dials the endpoint, runs the v100+ handshake, starts the API and
// waits for the first NextValidID. A single attempt; any failure leaves the
// client disconnected.
func (c *Client) Connect(ctx context.Context, host string, port int, clientID int) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	addr := net.JoinHostPort(host, itoa(port))
	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(venue.ErrConnectionFailure, "dial %s: %v", addr, err)
	}

	// Handshake: raw "API\0" prefix, then the supported version range as a
	// regular frame. The server answers with [serverVersion, connTime].
	if _, err := conn.Write([]byte("API\x00")); err != nil {
		_ = conn.Close()
		return errors.Wrapf(venue.ErrConnectionFailure, "handshake write: %v", err)
	}
	verRange := fmt.Sprintf("v%d..%d", minClientVersion, maxClientVersion)
	if err := writeFrame(conn, verRange); err != nil {
		_ = conn.Close()
		return errors.Wrapf(venue.ErrConnectionFailure, "handshake write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ConnectTimeout))
	fields, err := readFrame(conn)
	if err != nil || len(fields) < 1 {
		_ = conn.Close()
		return errors.Wrapf(venue.ErrConnectionFailure, "handshake read: %v", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	d := newDecoder(fields)
	c.serverVersion = d.int()
	connTime := d.str()
	log.Infof("handshake ok: serverVersion=%d connTime=%s", c.serverVersion, connTime)

	if err := writeFrame(conn, msgStartAPI, startAPIVersion, itoa(clientID), ""); err != nil {
		_ = conn.Close()
		return errors.Wrapf(venue.ErrConnectionFailure, "startAPI: %v", err)
	}

	ready := sigchan.New(1)
	c.mu.Lock()
	c.conn = conn
	c.clientID = clientID
	c.readyC = ready
	c.mu.Unlock()
	go c.readLoop(conn, ready)

	// Connected means the venue told us the next usable order id. The wait
	// must not hold c.mu: the read loop takes it to record the managed
	// account, which the venue announces before NextValidID.
	select {
	case <-ready.C():
	case <-time.After(c.cfg.ConnectTimeout):
		c.abortConnect(conn)
		return errors.Wrap(venue.ErrConnectionFailure, "no NextValidID from venue")
	case <-ctx.Done():
		c.abortConnect(conn)
		return errors.Wrapf(venue.ErrConnectionFailure, "%v", ctx.Err())
	}

	c.mu.Lock()
	if c.conn != conn { // reader already tore the connection down
		c.mu.Unlock()
		return errors.Wrap(venue.ErrConnectionFailure, "connection lost during connect")
	}
	c.connected = true
	account := c.account
	c.mu.Unlock()
	log.Infof("connected to %s clientID=%d account=%s", addr, clientID, account)
	return nil
}

func (c *Client) abortConnect(conn net.Conn) {
	_ = conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}

// Disconnect closes the socket. Safe when already disconnected; the read
// loop notices the closed connection and fails any in-flight waits.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected && c.conn == nil {
		return nil
	}
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	log.Info("disconnected")
	return nil
}

// IsConnected reports the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ClientID returns the client id of the live session (0 when disconnected).
func (c *Client) ClientID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return 0
	}
	return c.clientID
}

func (c *Client) send(fields ...string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return venue.ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return writeFrame(conn, fields...)
}

func (c *Client) allocOrderID() int {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	id := c.nextOrderID
	c.nextOrderID++
	return id
}

func (c *Client) allocReqID() int {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	id := c.nextReqID
	c.nextReqID++
	return id
}

// PlaceOrder submits one order and waits for the acknowledgment on a
// per-order channel, bounded by AckTimeout.
func (c *Client) PlaceOrder(ctx context.Context, inst domain.Instrument, spec domain.OrderSpec) (*venue.Ack, error) {
	if !c.IsConnected() {
		return nil, venue.ErrNotConnected
	}

	orderID := c.allocOrderID()
	ackC := make(chan ackEvent, 2)
	c.pendingMu.Lock()
	c.acks[orderID] = ackC
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.acks, orderID)
		c.pendingMu.Unlock()
	}()

	if err := c.send(placeOrderFields(orderID, inst, spec)...); err != nil {
		return nil, errors.Wrapf(venue.ErrUpstreamQuery, "send order: %v", err)
	}
	log.Infof("order %d sent: %s %s %v %s", orderID, spec.Action, inst.Symbol, spec.Quantity, spec.Kind)

	timer := time.NewTimer(c.cfg.AckTimeout)
	defer timer.Stop()
	select {
	case ev := <-ackC:
		if ev.rejected {
			return nil, errors.Wrap(venue.ErrVenueRejected, ev.reason)
		}
		return &venue.Ack{OrderID: itoa(orderID), Status: ev.status}, nil
	case <-timer.C:
		return nil, venue.ErrSubmissionTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// placeOrderFields builds the reduced PLACE_ORDER field set sufficient for
// plain MKT/LMT equity orders.
func placeOrderFields(orderID int, inst domain.Instrument, spec domain.OrderSpec) []string {
	limitPrice := ""
	if spec.LimitPrice != nil {
		limitPrice = ftoa(*spec.LimitPrice)
	}
	return []string{
		msgPlaceOrder,
		itoa(orderID),
		// contract
		"0", // conId
		inst.Symbol,
		"STK",
		"",  // lastTradeDateOrContractMonth
		"0", // strike
		"",  // right
		"",  // multiplier
		inst.Exchange,
		"", // primaryExchange
		inst.Currency,
		"", // localSymbol
		"", // tradingClass
		"", // secIdType
		"", // secId
		// order
		string(spec.Action),
		ftoa(spec.Quantity),
		string(spec.Kind),
		limitPrice,
		"",    // auxPrice
		"DAY", // tif
		"",    // ocaGroup
		"",    // account
		"1",   // transmit
	}
}

// Positions runs one REQ_POSITIONS cycle and collects rows until
// POSITION_END. Only one cycle runs at a time.
func (c *Client) Positions(ctx context.Context) ([]domain.Position, error) {
	if !c.IsConnected() {
		return nil, venue.ErrNotConnected
	}

	resC := make(chan posResult, 1)
	c.pendingMu.Lock()
	if c.posReq != nil {
		c.pendingMu.Unlock()
		return nil, errors.Wrap(venue.ErrUpstreamQuery, "positions request already in flight")
	}
	c.posBuf = nil
	c.posReq = resC
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		c.posReq = nil
		c.pendingMu.Unlock()
	}()

	if err := c.send(msgReqPositions, "1"); err != nil {
		return nil, errors.Wrapf(venue.ErrUpstreamQuery, "request positions: %v", err)
	}

	timer := time.NewTimer(c.cfg.QueryTimeout)
	defer timer.Stop()
	select {
	case res := <-resC:
		if res.err != nil {
			return nil, errors.Wrapf(venue.ErrUpstreamQuery, "%v", res.err)
		}
		if res.positions == nil {
			res.positions = []domain.Position{}
		}
		return res.positions, nil
	case <-timer.C:
		_ = c.send(msgCancelPositions, "1")
		return nil, errors.Wrap(venue.ErrUpstreamQuery, "positions timed out")
	case <-ctx.Done():
		_ = c.send(msgCancelPositions, "1")
		return nil, ctx.Err()
	}
}

// AccountSummary runs one REQ_ACCOUNT_SUMMARY cycle keyed by a fresh
// request id and collects rows until the matching end marker.
func (c *Client) AccountSummary(ctx context.Context) ([]domain.AccountValue, error) {
	if !c.IsConnected() {
		return nil, venue.ErrNotConnected
	}

	reqID := c.allocReqID()
	req := &sumRequest{done: make(chan error, 1)}
	c.pendingMu.Lock()
	c.sumReqs[reqID] = req
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.sumReqs, reqID)
		c.pendingMu.Unlock()
	}()

	if err := c.send(msgReqAccountSummary, "1", itoa(reqID), "All", accountSummaryTags); err != nil {
		return nil, errors.Wrapf(venue.ErrUpstreamQuery, "request account summary: %v", err)
	}

	timer := time.NewTimer(c.cfg.QueryTimeout)
	defer timer.Stop()
	select {
	case err := <-req.done:
		_ = c.send(msgCancelAccountSummary, "1", itoa(reqID))
		if err != nil {
			return nil, errors.Wrapf(venue.ErrUpstreamQuery, "%v", err)
		}
		c.pendingMu.Lock()
		rows := req.rows
		c.pendingMu.Unlock()
		return rows, nil
	case <-timer.C:
		_ = c.send(msgCancelAccountSummary, "1", itoa(reqID))
		return nil, errors.Wrap(venue.ErrUpstreamQuery, "account summary timed out")
	case <-ctx.Done():
		_ = c.send(msgCancelAccountSummary, "1", itoa(reqID))
		return nil, ctx.Err()
	}
}

// readLoop owns the inbound stream. It exits when the connection errors or
// is closed, failing whatever was still waiting.
func (c *Client) readLoop(conn net.Conn, ready *sigchan.Chan) {
	for {
		fields, err := readFrame(conn)
		if err != nil {
			c.handleReadError(err)
			return
		}
		if len(fields) == 0 {
			continue
		}
		c.dispatch(fields, ready)
	}
}

func (c *Client) handleReadError(err error) {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.conn = nil
	c.mu.Unlock()

	if wasConnected {
		log.Warnf("connection lost: %v", err)
	}

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ackC := range c.acks {
		select {
		case ackC <- ackEvent{rejected: true, reason: "connection lost before acknowledgment"}:
		default:
		}
		delete(c.acks, id)
	}
	if c.posReq != nil {
		c.posReq <- posResult{err: errors.New("connection lost")}
		c.posReq = nil
	}
	for id, req := range c.sumReqs {
		select {
		case req.done <- errors.New("connection lost"):
		default:
		}
		delete(c.sumReqs, id)
	}
}

func (c *Client) dispatch(fields []string, ready *sigchan.Chan) {
	d := newDecoder(fields)
	switch d.str() {
	case inNextValidID:
		d.skip(1) // version
		id := d.int()
		c.idMu.Lock()
		if id > c.nextOrderID {
			c.nextOrderID = id
		}
		c.idMu.Unlock()
		ready.Emit()

	case inManagedAccounts:
		d.skip(1) // version
		accounts := d.str()
		c.mu.Lock()
		c.account = strings.Split(accounts, ",")[0]
		c.mu.Unlock()

	case inErrMsg:
		d.skip(1) // version
		id := d.int()
		code := d.int()
		msg := d.str()
		c.deliverError(id, code, msg)

	case inOpenOrder:
		orderID := d.int()
		c.deliverAck(orderID, "Submitted")

	case inOrderStatus:
		orderID := d.int()
		status := d.str()
		c.deliverAck(orderID, status)

	case inPosition:
		d.skip(1) // version
		account := d.str()
		d.skip(1) // conId
		symbol := d.str()
		d.skip(1) // secType
		d.skip(4) // expiry, strike, right, multiplier
		exchange := d.str()
		currency := d.str()
		d.skip(2) // localSymbol, tradingClass
		qty := d.float()
		avgCost := d.float()
		c.pendingMu.Lock()
		if c.posReq != nil {
			c.posBuf = append(c.posBuf, domain.Position{
				Account:     account,
				Symbol:      symbol,
				Exchange:    exchange,
				Currency:    currency,
				Quantity:    qty,
				AverageCost: avgCost,
			})
		}
		c.pendingMu.Unlock()

	case inPositionEnd:
		c.pendingMu.Lock()
		if c.posReq != nil {
			c.posReq <- posResult{positions: c.posBuf}
			c.posReq = nil
			c.posBuf = nil
		}
		c.pendingMu.Unlock()

	case inAccountSummary:
		d.skip(1) // version
		reqID := d.int()
		row := domain.AccountValue{
			Account:  d.str(),
			Tag:      d.str(),
			Value:    d.str(),
			Currency: d.str(),
		}
		c.pendingMu.Lock()
		if req, ok := c.sumReqs[reqID]; ok {
			req.rows = append(req.rows, row)
		}
		c.pendingMu.Unlock()

	case inAccountSummaryEnd:
		d.skip(1) // version
		reqID := d.int()
		c.pendingMu.Lock()
		if req, ok := c.sumReqs[reqID]; ok {
			select {
			case req.done <- nil:
			default:
			}
		}
		c.pendingMu.Unlock()

	default:
		log.Debugf("ignoring message %q (%d fields)", fields[0], len(fields))
	}
}

// deliverError routes an ERR_MSG row: order-scoped rows become rejections,
// id -1 rows are the venue's connection notices.
func (c *Client) deliverError(id, code int, msg string) {
	if id >= 0 {
		c.pendingMu.Lock()
		ackC, ok := c.acks[id]
		c.pendingMu.Unlock()
		if ok {
			select {
			case ackC <- ackEvent{rejected: true, reason: fmt.Sprintf("code %d: %s", code, msg)}:
			default:
			}
			return
		}
	}
	log.Infof("venue message id=%d code=%d: %s", id, code, msg)
}

func (c *Client) deliverAck(orderID int, status string) {
	c.pendingMu.Lock()
	ackC, ok := c.acks[orderID]
	c.pendingMu.Unlock()
	if !ok {
		return
	}
	select {
	case ackC <- ackEvent{status: status}:
	default:
	}
}
