package transport

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	ipvx "golang.org/x/net/ipv4"
)

// openLoopbackSocket opens a client socket on an ephemeral loopback port.
func openLoopbackSocket() *Socket {
	conn, err := net.ListenPacket(IPv4.network(), "127.0.0.1:0")
	Expect(err).ShouldNot(HaveOccurred())

	return &Socket{
		Family:       IPv4,
		Kind:         ClientSocket,
		LocalAddress: udpAddr(conn),
		conn:         &conn4{ipvx.NewPacketConn(conn)},
		logger:       testLogger(),
	}
}

var _ = Describe("Multiplexer", func() {
	var (
		ctx           context.Context
		cancel        context.CancelFunc
		first, second *Socket
		sender        net.PacketConn
		mux           *Multiplexer
	)

	send := func(s *Socket, data string) {
		_, err := sender.WriteTo([]byte(data), s.LocalAddress)
		Expect(err).ShouldNot(HaveOccurred())
	}

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)

		first = openLoopbackSocket()
		second = openLoopbackSocket()

		var err error
		sender, err = net.ListenPacket("udp4", "127.0.0.1:0")
		Expect(err).ShouldNot(HaveOccurred())

		mux = NewMultiplexer(ctx, []*Socket{first, second}, testLogger())
	})

	AfterEach(func() {
		mux.Close()
		sender.Close()
		cancel()
	})

	Describe("func Wait()", func() {
		It("returns a packet received on any socket", func() {
			send(second, "<data>")

			packets, err := mux.Wait(ctx, 0)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(packets).To(HaveLen(1))

			p := packets[0]
			defer p.Close()

			Expect(p.Socket).To(Equal(second))
			Expect(string(p.Data)).To(Equal("<data>"))
			Expect(p.Source.Address.Port).To(Equal(sender.LocalAddr().(*net.UDPAddr).Port))
		})

		It("returns all ready packets ordered by socket", func() {
			send(second, "<second>")
			send(first, "<first>")

			// allow both datagrams to be queued before waiting
			time.Sleep(100 * time.Millisecond)

			packets, err := mux.Wait(ctx, 0)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(packets).To(HaveLen(2))

			defer packets[0].Close()
			defer packets[1].Close()

			Expect(string(packets[0].Data)).To(Equal("<first>"))
			Expect(string(packets[1].Data)).To(Equal("<second>"))
		})

		It("returns no packets if the timeout elapses", func() {
			start := time.Now()

			packets, err := mux.Wait(ctx, 50*time.Millisecond)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(packets).To(BeEmpty())
			Expect(time.Since(start)).To(BeNumerically(">=", 50*time.Millisecond))
		})

		It("returns an error if the context is canceled", func() {
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()

			_, err := mux.Wait(ctx, 0)
			Expect(err).To(Equal(context.Canceled))
		})

		It("returns an error if every socket has failed", func() {
			first.Close()
			second.Close()

			_, err := mux.Wait(ctx, 0)
			Expect(err).To(Equal(ErrAllSocketsFailed))
		})
	})

	Describe("func Close()", func() {
		It("closes the sockets", func() {
			mux.Close()

			_, err := first.Read()
			Expect(err).Should(HaveOccurred())
		})
	})
})
