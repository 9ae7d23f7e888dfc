package transport

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"golang.org/x/sync/errgroup"
)

// ErrAllSocketsFailed is returned by Multiplexer.Wait when every socket has
// stopped receiving because of an error.
var ErrAllSocketsFailed = errors.New("unable to read from any mDNS sockets")

// Multiplexer waits for packets on several sockets at once.
//
// Each socket is read by its own goroutine. A socket that fails is logged and
// skipped from then on, but it remains open until the multiplexer is closed.
type Multiplexer struct {
	sockets []*Socket
	index   map[*Socket]int
	logger  logging.Logger

	packets chan *InboundPacket
	done    chan struct{}
	cancel  context.CancelFunc
	once    sync.Once
	err     error
}

// NewMultiplexer starts reading packets from the given sockets.
//
// The multiplexer takes ownership of the sockets. They are closed when ctx is
// canceled or Close() is called, which unblocks any pending reads.
func NewMultiplexer(
	ctx context.Context,
	sockets []*Socket,
	logger logging.Logger,
) *Multiplexer {
	ctx, cancel := context.WithCancel(ctx)

	m := &Multiplexer{
		sockets: sockets,
		index:   make(map[*Socket]int, len(sockets)),
		logger:  logger,
		packets: make(chan *InboundPacket, len(sockets)*4),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	var g errgroup.Group

	for i, s := range sockets {
		s := s
		m.index[s] = i

		g.Go(func() error {
			return m.read(ctx, s)
		})
	}

	go func() {
		<-ctx.Done()
		m.closeSockets() // break out of s.Read() when the context is canceled
	}()

	go func() {
		err := g.Wait()
		if err == nil {
			err = ErrAllSocketsFailed
		}
		m.err = err
		close(m.done)
	}()

	return m
}

// Wait blocks until at least one packet is available, then returns every
// packet that is ready, ordered by the position of its socket.
//
// If timeout is positive and elapses before any packet arrives, it returns
// no packets and a nil error. A timeout of zero waits indefinitely. It returns
// an error if ctx is canceled or every socket has failed.
//
// The caller must close each returned packet.
func (m *Multiplexer) Wait(ctx context.Context, timeout time.Duration) ([]*InboundPacket, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case in := <-m.packets:
		return m.drain(in), nil
	case <-expired:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		select {
		case in := <-m.packets:
			return m.drain(in), nil
		default:
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return nil, m.err
	}
}

// Close closes every socket and waits for the reading goroutines to stop.
func (m *Multiplexer) Close() {
	m.cancel()
	<-m.done
	m.closeSockets()

	for {
		select {
		case in := <-m.packets:
			in.Close()
		default:
			return
		}
	}
}

// drain returns first along with all other packets that are already queued.
func (m *Multiplexer) drain(first *InboundPacket) []*InboundPacket {
	packets := []*InboundPacket{first}

	for {
		select {
		case in := <-m.packets:
			packets = append(packets, in)
		default:
			sort.SliceStable(packets, func(i, j int) bool {
				return m.index[packets[i].Socket] < m.index[packets[j].Socket]
			})
			return packets
		}
	}
}

// read reads packets from s until ctx is canceled or an error occurs.
func (m *Multiplexer) read(ctx context.Context, s *Socket) error {
	for {
		in, err := s.Read()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}

			logReadError(m.logger, s, err)
			return err
		}

		select {
		case m.packets <- in:
		case <-ctx.Done():
			in.Close()
			return nil
		}
	}
}

// closeSockets closes all of the sockets, exactly once.
func (m *Multiplexer) closeSockets() {
	m.once.Do(func() {
		CloseAll(m.sockets, m.logger)
	})
}
