package player

// Listener receives every notification a Player emits. Embed NopListener to
// implement only the events of interest.
type Listener interface {
	StatusChanged(from, to Status)
	UnknownSource(source string)
	DownloadFailed(source string, err error)
	DataParseFailed(source string, err error)
	AssetParseFailed(source string, err error)
	EntityInvalid(source string, entity Entity, reason Validity)
	ParseDone(source string, entity Entity)
	ReadyForPlay(source string, autoplay bool)
	AnimatingToFrame(source string, frame int)
	FinishedOnce(source string, loopCount int)
	FinishedAll(source string, userInitiated bool)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) StatusChanged(Status, Status)           {}
func (NopListener) UnknownSource(string)                   {}
func (NopListener) DownloadFailed(string, error)           {}
func (NopListener) DataParseFailed(string, error)          {}
func (NopListener) AssetParseFailed(string, error)         {}
func (NopListener) EntityInvalid(string, Entity, Validity) {}
func (NopListener) ParseDone(string, Entity)               {}
func (NopListener) ReadyForPlay(string, bool)              {}
func (NopListener) AnimatingToFrame(string, int)           {}
func (NopListener) FinishedOnce(string, int)               {}
func (NopListener) FinishedAll(string, bool)               {}

// EventKind tags an Event.
type EventKind int

const (
	EventStatusChanged EventKind = iota
	EventUnknownSource
	EventDownloadFailed
	EventDataParseFailed
	EventAssetParseFailed
	EventEntityInvalid
	EventParseDone
	EventReadyForPlay
	EventAnimatingToFrame
	EventFinishedOnce
	EventFinishedAll
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStatusChanged:
		return "status-changed"
	case EventUnknownSource:
		return "unknown-source"
	case EventDownloadFailed:
		return "download-failed"
	case EventDataParseFailed:
		return "data-parse-failed"
	case EventAssetParseFailed:
		return "asset-parse-failed"
	case EventEntityInvalid:
		return "entity-invalid"
	case EventParseDone:
		return "parse-done"
	case EventReadyForPlay:
		return "ready-for-play"
	case EventAnimatingToFrame:
		return "animating-to-frame"
	case EventFinishedOnce:
		return "finished-once"
	case EventFinishedAll:
		return "finished-all"
	default:
		return "unknown"
	}
}

// Event is a tagged notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind          EventKind
	Source        string
	From, To      Status
	Entity        Entity
	Err           error
	Reason        Validity
	Frame         int
	LoopCount     int
	Autoplay      bool
	UserInitiated bool
}

// IsFailure reports whether the event terminates a load attempt.
func (e Event) IsFailure() bool {
	switch e.Kind {
	case EventUnknownSource, EventDownloadFailed, EventDataParseFailed,
		EventAssetParseFailed, EventEntityInvalid:
		return true
	}
	return false
}

// ChannelListener forwards every event as an Event value on a buffered
// channel. Events are dropped when the buffer is full.
type ChannelListener struct {
	ch chan Event
}

// NewChannelListener creates a listener with the given buffer size.
func NewChannelListener(buffer int) *ChannelListener {
	return &ChannelListener{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the channel.
func (c *ChannelListener) Events() <-chan Event {
	return c.ch
}

func (c *ChannelListener) send(e Event) {
	select {
	case c.ch <- e:
	default:
	}
}

func (c *ChannelListener) StatusChanged(from, to Status) {
	c.send(Event{Kind: EventStatusChanged, From: from, To: to})
}

func (c *ChannelListener) UnknownSource(source string) {
	c.send(Event{Kind: EventUnknownSource, Source: source, Err: ErrUnknownSource})
}

func (c *ChannelListener) DownloadFailed(source string, err error) {
	c.send(Event{Kind: EventDownloadFailed, Source: source, Err: err})
}

func (c *ChannelListener) DataParseFailed(source string, err error) {
	c.send(Event{Kind: EventDataParseFailed, Source: source, Err: err})
}

func (c *ChannelListener) AssetParseFailed(source string, err error) {
	c.send(Event{Kind: EventAssetParseFailed, Source: source, Err: err})
}

func (c *ChannelListener) EntityInvalid(source string, entity Entity, reason Validity) {
	c.send(Event{Kind: EventEntityInvalid, Source: source, Entity: entity, Reason: reason, Err: ErrEntityInvalid})
}

func (c *ChannelListener) ParseDone(source string, entity Entity) {
	c.send(Event{Kind: EventParseDone, Source: source, Entity: entity})
}

func (c *ChannelListener) ReadyForPlay(source string, autoplay bool) {
	c.send(Event{Kind: EventReadyForPlay, Source: source, Autoplay: autoplay})
}

func (c *ChannelListener) AnimatingToFrame(source string, frame int) {
	c.send(Event{Kind: EventAnimatingToFrame, Source: source, Frame: frame})
}

func (c *ChannelListener) FinishedOnce(source string, loopCount int) {
	c.send(Event{Kind: EventFinishedOnce, Source: source, LoopCount: loopCount})
}

func (c *ChannelListener) FinishedAll(source string, userInitiated bool) {
	c.send(Event{Kind: EventFinishedAll, Source: source, UserInitiated: userInitiated})
}

// MultiListener fans every event out to each listener in order.
type MultiListener []Listener

func (m MultiListener) each(fn func(Listener)) {
	for _, l := range m {
		if l != nil {
			fn(l)
		}
	}
}

func (m MultiListener) StatusChanged(from, to Status) {
	m.each(func(l Listener) { l.StatusChanged(from, to) })
}

func (m MultiListener) UnknownSource(source string) {
	m.each(func(l Listener) { l.UnknownSource(source) })
}

func (m MultiListener) DownloadFailed(source string, err error) {
	m.each(func(l Listener) { l.DownloadFailed(source, err) })
}

func (m MultiListener) DataParseFailed(source string, err error) {
	m.each(func(l Listener) { l.DataParseFailed(source, err) })
}

func (m MultiListener) AssetParseFailed(source string, err error) {
	m.each(func(l Listener) { l.AssetParseFailed(source, err) })
}

func (m MultiListener) EntityInvalid(source string, entity Entity, reason Validity) {
	m.each(func(l Listener) { l.EntityInvalid(source, entity, reason) })
}

func (m MultiListener) ParseDone(source string, entity Entity) {
	m.each(func(l Listener) { l.ParseDone(source, entity) })
}

func (m MultiListener) ReadyForPlay(source string, autoplay bool) {
	m.each(func(l Listener) { l.ReadyForPlay(source, autoplay) })
}

func (m MultiListener) AnimatingToFrame(source string, frame int) {
	m.each(func(l Listener) { l.AnimatingToFrame(source, frame) })
}

func (m MultiListener) FinishedOnce(source string, loopCount int) {
	m.each(func(l Listener) { l.FinishedOnce(source, loopCount) })
}

func (m MultiListener) FinishedAll(source string, userInitiated bool) {
	m.each(func(l Listener) { l.FinishedAll(source, userInitiated) })
}

var (
	_ Listener = NopListener{}
	_ Listener = (*ChannelListener)(nil)
	_ Listener = MultiListener(nil)
)
