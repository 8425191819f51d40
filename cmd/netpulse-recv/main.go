// netpulse-recv is a debug collector: it binds the UDP endpoint and
// prints every sample it receives.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/NodePath81/netpulse/internal/sample"
)

func main() {
	addr := flag.String("listen", "127.0.0.1:8080", "UDP address to listen on")
	flag.Parse()

	conn, err := net.ListenPacket("udp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listen failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Printf("listening on %s\n", conn.LocalAddr())

	buf := make([]byte, 2048)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
			os.Exit(1)
		}
		smp, err := sample.Decode(buf[:n])
		if err != nil {
			fmt.Printf("%s: undecodable payload (%v): %q\n", from, err, buf[:n])
			continue
		}
		fmt.Printf("%s: %s iface=%s target=%s latency=%.1fms loss=%.1f%% rx=%.2fKB/s tx=%.2fKB/s\n",
			from, smp.Timestamp, smp.Interface, smp.TargetIP,
			smp.LatencyMs, smp.PacketLossPct, smp.RxSpeedKBps, smp.TxSpeedKBps)
	}
}
