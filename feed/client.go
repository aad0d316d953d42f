package feed

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/intrinio/option-analytics-go/cache"
	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

var selfHealBackoffs = [5]int{10, 30, 60, 300, 600}

const (
	heartbeatInterval = 20 * time.Second
	maxQueueDepth     = 20000
)

func doBackoff(fn func() bool, isStopped *bool) {
	i := 0
	backoff := selfHealBackoffs[i]
	success := fn()
	for !success && !*isStopped {
		time.Sleep(time.Duration(backoff) * time.Second)
		if !*isStopped {
			i = min(i+1, len(selfHealBackoffs)-1)
			backoff = selfHealBackoffs[i]
			success = fn()
		}
	}
}

// QuoteMessage is the wire shape a feed publishes: either an option
// quote (Underlying+Expiry+Strike+Type set) or an equity spot tick
// (EquitySpot set, rest zero). SPEC_FULL.md §2 re-themes the reference
// SDK's OPRA binary frame to this flat JSON message.
type QuoteMessage struct {
	Underlying   string  `json:"underlying"`
	Expiry       string  `json:"expiry"`
	Strike       float64 `json:"strike"`
	Type         string  `json:"type"`
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Last         float64 `json:"last"`
	Mark         float64 `json:"mark"`
	American     bool    `json:"american"`
	Multiplier   float64 `json:"multiplier"`
	DaysToExpiry int     `json:"days_to_expiry"`
	EquitySpot   bool    `json:"equity_spot"`
}

// Client is a reconnecting websocket feed that writes quote updates
// directly into a cache.MarketCache. Grounded on the reference SDK's
// root client.go: backoff-array reconnect, heartbeat ticker,
// channel-buffered read/write loops, worker-pool dispatch.
type Client struct {
	config        Config
	marketCache   *cache.MarketCache
	workerCount   int
	subscriptions map[string]bool
	isStopped     bool
	isClosed      bool
	closeWg       sync.WaitGroup
	reconnected   chan bool
	readChannel   chan []byte
	writeChannel  chan []byte
	wsConn        *websocket.Conn
	heartbeat     *time.Ticker
}

// New constructs a feed client that publishes into target. workers
// controls how many goroutines drain the read channel concurrently.
func New(c Config, target *cache.MarketCache, workers int) *Client {
	if workers < 1 {
		workers = 1
	}
	return &Client{
		config:        c,
		marketCache:   target,
		workerCount:   workers,
		isStopped:     true,
		isClosed:      true,
		reconnected:   make(chan bool),
		readChannel:   make(chan []byte, maxQueueDepth),
		writeChannel:  make(chan []byte, 1000),
		subscriptions: make(map[string]bool),
	}
}

func (c *Client) composeJoinMsg(symbol string) []byte {
	msg, _ := json.Marshal(map[string]string{"action": "join", "symbol": symbol})
	return msg
}

func (c *Client) composeLeaveMsg(symbol string) []byte {
	msg, _ := json.Marshal(map[string]string{"action": "leave", "symbol": symbol})
	return msg
}

func (c *Client) initWebSocket() {
	log.Println("feed - connecting...")
	header := map[string][]string{"Client-Information": {"option-analytics-go"}}
	dialer := websocket.Dialer{ReadBufferSize: 10240, WriteBufferSize: 128}
	conn, resp, err := dialer.Dial(c.config.WSUrl, header)
	if err != nil {
		log.Printf("feed - connection failure: %v\n", err)
		return
	}
	log.Printf("feed - status: %s\n", resp.Status)
	c.wsConn = conn
	if c.heartbeat == nil {
		c.heartbeat = time.NewTicker(heartbeatInterval)
	}
	c.isClosed = false
}

func (c *Client) tryResetWebSocket() bool {
	header := map[string][]string{"Client-Information": {"option-analytics-go"}}
	dialer := websocket.Dialer{ReadBufferSize: 10240, WriteBufferSize: 128}
	conn, resp, err := dialer.Dial(c.config.WSUrl, header)
	if err != nil {
		return false
	}
	log.Printf("feed - status: %s\n", resp.Status)
	c.wsConn = conn
	log.Println("feed - rejoining")
	for symbol := range c.subscriptions {
		c.writeChannel <- c.composeJoinMsg(symbol)
	}
	c.reconnected <- true
	c.isClosed = false
	return true
}

func (c *Client) reconnect() {
	c.wsConn.Close()
	time.Sleep(10 * time.Second)
	doBackoff(func() bool {
		log.Println("feed - reconnecting...")
		return c.tryResetWebSocket()
	}, &c.isStopped)
}

func (c *Client) write() {
	for {
		if c.isStopped {
			remaining := len(c.writeChannel)
			for i := 0; i < remaining; i++ {
				data := <-c.writeChannel
				c.wsConn.WriteMessage(websocket.TextMessage, data)
			}
			time.Sleep(500 * time.Millisecond)
			c.wsConn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
			return
		}
		if c.isClosed {
			time.Sleep(time.Second)
			continue
		}
		select {
		case <-c.heartbeat.C:
			c.wsConn.WriteMessage(websocket.PingMessage, nil)
		default:
			select {
			case data := <-c.writeChannel:
				c.wsConn.WriteMessage(websocket.TextMessage, data)
			default:
			}
			if len(c.writeChannel) < 2 {
				time.Sleep(500 * time.Millisecond)
			}
		}
	}
}

func (c *Client) read() {
	for {
		msgType, data, err := c.wsConn.ReadMessage()
		if err != nil {
			c.isClosed = true
			log.Printf("feed - received: %v\n", err)
			if c.isStopped {
				return
			}
			go c.reconnect()
			<-c.reconnected
			log.Println("feed - reconnected")
			continue
		}
		if msgType != websocket.TextMessage {
			continue
		}
		select {
		case c.readChannel <- data:
		default:
			log.Println("feed - read channel full, dropping message")
		}
	}
}

func (c *Client) work() {
	for {
		if len(c.readChannel) == 0 {
			if c.isClosed && c.isStopped {
				defer c.closeWg.Done()
				return
			}
			time.Sleep(time.Second)
			continue
		}
		data := <-c.readChannel
		c.apply(data)
	}
}

// apply decodes one QuoteMessage and publishes it into the market
// cache — either as an underlying spot update or as an option chain
// row upsert/mutation.
func (c *Client) apply(data []byte) {
	var msg QuoteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("feed - malformed message: %v\n", err)
		return
	}
	if msg.EquitySpot {
		c.marketCache.SetUnderlyingSpot(msg.Underlying, msg.Last)
		return
	}

	expiry, err := time.Parse("2006-01-02", msg.Expiry)
	if err != nil {
		log.Printf("feed - malformed expiry %q: %v\n", msg.Expiry, err)
		return
	}
	typ := pricing.Call
	if strings.EqualFold(msg.Type, "put") {
		typ = pricing.Put
	}
	style := chain.European
	if msg.American {
		style = chain.American
	}

	contract := chain.OptionContract{
		Underlying:   msg.Underlying,
		Expiry:       expiry,
		Strike:       msg.Strike,
		Type:         typ,
		Bid:          msg.Bid,
		Ask:          msg.Ask,
		Last:         msg.Last,
		Mark:         msg.Mark,
		Style:        style,
		Multiplier:   msg.Multiplier,
		DaysToExpiry: msg.DaysToExpiry,
	}
	c.marketCache.UpsertContract(contract)
}

// Start connects and launches the read/write/worker goroutines.
func (c *Client) Start() {
	c.isStopped = false
	c.initWebSocket()
	for w := 0; w < c.workerCount; w++ {
		c.closeWg.Add(1)
		go c.work()
	}
	go c.read()
	go c.write()
}

// Join subscribes to symbol once the socket is open.
func (c *Client) Join(symbol string) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return
	}
	for c.isClosed {
		time.Sleep(time.Second)
	}
	if !c.subscriptions[symbol] {
		c.subscriptions[symbol] = true
		c.writeChannel <- c.composeJoinMsg(symbol)
	}
}

// Leave unsubscribes from symbol.
func (c *Client) Leave(symbol string) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return
	}
	if c.subscriptions[symbol] {
		c.writeChannel <- c.composeLeaveMsg(symbol)
		delete(c.subscriptions, symbol)
	}
}

// Stop unsubscribes from everything and waits for workers to drain.
func (c *Client) Stop() {
	log.Println("feed - stopping...")
	for symbol := range c.subscriptions {
		c.writeChannel <- c.composeLeaveMsg(symbol)
		delete(c.subscriptions, symbol)
	}
	c.isStopped = true
	c.closeWg.Wait()
	log.Println("feed - stopped")
}
