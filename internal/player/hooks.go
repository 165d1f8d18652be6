package player

// Continuation carries the callbacks handed to a Resolver or Downloader.
// Each callback must be invoked on the player's control goroutine. Calling
// more than one, or calling one twice, is tolerated: only the first call
// under a live token has any effect.
type Continuation struct {
	succeed         func(data []byte)
	fail            func(err error)
	forwardDownload func(location string)
	forwardAsset    func(name string)
}

// NewContinuation builds a Continuation from plain callbacks. Nil callbacks
// are ignored.
func NewContinuation(succeed func([]byte), fail func(error), forwardDownload, forwardAsset func(string)) Continuation {
	return Continuation{
		succeed:         succeed,
		fail:            fail,
		forwardDownload: forwardDownload,
		forwardAsset:    forwardAsset,
	}
}

// Succeed delivers fetched bytes for decoding.
func (c Continuation) Succeed(data []byte) {
	if c.succeed != nil {
		c.succeed(data)
	}
}

// Fail ends the attempt with a download failure.
func (c Continuation) Fail(err error) {
	if c.fail != nil {
		c.fail(err)
	}
}

// ForwardDownload routes the attempt through the download path, fetching
// location instead of the original source.
func (c Continuation) ForwardDownload(location string) {
	if c.forwardDownload != nil {
		c.forwardDownload(location)
	}
}

// ForwardAsset routes the attempt through the bundled-asset path.
func (c Continuation) ForwardAsset(name string) {
	if c.forwardAsset != nil {
		c.forwardAsset(name)
	}
}

// Resolver overrides routing for every source. It fully controls whether a
// source is fetched, read locally, or forwarded.
type Resolver interface {
	Resolve(source string, c Continuation)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(source string, c Continuation)

// Resolve calls f.
func (f ResolverFunc) Resolve(source string, c Continuation) { f(source, c) }

// Downloader replaces the decoder's built-in URL fetch. Only Succeed and
// Fail are meaningful on the continuation it receives.
type Downloader interface {
	Download(location string, c Continuation)
}

// DownloaderFunc adapts a function to a Downloader.
type DownloaderFunc func(location string, c Continuation)

// Download calls f.
func (f DownloaderFunc) Download(location string, c Continuation) { f(location, c) }

// KeyGenerator derives the decoder cache key for fetched bytes.
type KeyGenerator interface {
	Key(source string) string
}

// KeyGeneratorFunc adapts a function to a KeyGenerator.
type KeyGeneratorFunc func(source string) string

// Key calls f.
func (f KeyGeneratorFunc) Key(source string) string { return f(source) }

// Hooks bundles the optional resolution strategies. A single Hooks value may
// be shared by any number of players; hooks must not touch player state
// other than through the continuations they are given.
type Hooks struct {
	Resolver     Resolver
	Downloader   Downloader
	KeyGenerator KeyGenerator
}

func (h Hooks) cacheKey(source string) string {
	if h.KeyGenerator == nil {
		return source
	}
	if key := h.KeyGenerator.Key(source); key != "" {
		return key
	}
	return source
}
