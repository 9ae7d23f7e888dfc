//go:build debug
// +build debug

package responder

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/miekg/dns"
)

var dumpMutex sync.Mutex

func indent(s string) string {
	return "\t" + strings.Replace(s, "\n", "\n\t", -1)
}

func dumpRequestResponse(
	in *transport.InboundPacket,
	query *dns.Msg,
	unicast *dns.Msg,
	multicast *dns.Msg,
) {
	dumpMutex.Lock()
	defer dumpMutex.Unlock()

	fmt.Fprintln(os.Stderr, strings.Repeat("-", 80))
	fmt.Fprintln(os.Stderr)

	fmt.Fprintf(os.Stderr, "QUERY FROM %s via %s", in.Source.Address, in.Socket)
	if in.Source.IsLegacy() {
		fmt.Fprint(os.Stderr, " (legacy)")
	}
	fmt.Fprint(os.Stderr, "\n\n")
	fmt.Fprintln(os.Stderr, indent(query.String()))

	if len(unicast.Answer) > 0 {
		fmt.Fprintln(os.Stderr, "UNICAST RESPONSE")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, indent(unicast.String()))
	}

	if len(multicast.Answer) > 0 {
		fmt.Fprintln(os.Stderr, "MULTICAST RESPONSE")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, indent(multicast.String()))
	}
}
