package probe

import "testing"

const linuxPingOutput = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=4.10 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=117 time=4.35 ms

--- 8.8.8.8 ping statistics ---
5 packets transmitted, 5 received, 0% packet loss, time 4005ms
rtt min/avg/max/mdev = 1.0/4.2/10.0/1.1 ms
`

const macPingOutput = `PING 1.1.1.1 (1.1.1.1): 56 data bytes

--- 1.1.1.1 ping statistics ---
4 packets transmitted, 3 packets received, 25.0% packet loss
round-trip min/avg/max/stddev = 10.1/12.5/15.2/2.1 ms
`

const windowsPingOutput = `Pinging 8.8.8.8 with 32 bytes of data:
Reply from 8.8.8.8: bytes=32 time=15ms TTL=117

Ping statistics for 8.8.8.8:
    Packets: Sent = 4, Received = 4, Lost = 0 (2% loss),
Approximate round trip times in milli-seconds:
    Minimum = 11ms, Maximum = 19ms, Average = 15ms
`

func TestPosixDialectParse(t *testing.T) {
	res := posixDialect{}.Parse(linuxPingOutput)
	if res.LatencyMs != 4.2 {
		t.Fatalf("latency = %v, want 4.2", res.LatencyMs)
	}
	if res.PacketLossPct != 0 {
		t.Fatalf("loss = %v, want 0", res.PacketLossPct)
	}
}

func TestPosixDialectParseMac(t *testing.T) {
	res := posixDialect{}.Parse(macPingOutput)
	if res.LatencyMs != 12.5 {
		t.Fatalf("latency = %v, want 12.5", res.LatencyMs)
	}
	if res.PacketLossPct != 25.0 {
		t.Fatalf("loss = %v, want 25.0", res.PacketLossPct)
	}
}

func TestWindowsDialectParse(t *testing.T) {
	res := windowsDialect{}.Parse(windowsPingOutput)
	if res.LatencyMs != 15.0 {
		t.Fatalf("latency = %v, want 15.0", res.LatencyMs)
	}
	if res.PacketLossPct != 2.0 {
		t.Fatalf("loss = %v, want 2.0", res.PacketLossPct)
	}
}

func TestDialectUnparsableYieldsSentinels(t *testing.T) {
	for _, d := range []Dialect{posixDialect{}, windowsDialect{}} {
		for _, raw := range []string{"", "garbage\nmore garbage\n"} {
			res := d.Parse(raw)
			if res.LatencyMs != SentinelLatencyMs || res.PacketLossPct != SentinelLossPct {
				t.Fatalf("%s dialect on %q = %+v, want sentinels", d.Name(), raw, res)
			}
		}
	}
}

func TestDialectPartiallyParsable(t *testing.T) {
	// A stats line alone still yields latency; loss stays at its sentinel.
	res := posixDialect{}.Parse("rtt min/avg/max/mdev = 1.0/4.2/10.0/1.1 ms\n")
	if res.LatencyMs != 4.2 {
		t.Fatalf("latency = %v, want 4.2", res.LatencyMs)
	}
	if res.PacketLossPct != SentinelLossPct {
		t.Fatalf("loss = %v, want sentinel", res.PacketLossPct)
	}

	// Malformed numbers default per field.
	res = posixDialect{}.Parse("rtt min/avg/max/mdev = a/b/c/d ms\n5 packets transmitted, 5 received, 0% packet loss\n")
	if res.LatencyMs != SentinelLatencyMs {
		t.Fatalf("latency = %v, want sentinel", res.LatencyMs)
	}
	if res.PacketLossPct != 0 {
		t.Fatalf("loss = %v, want 0", res.PacketLossPct)
	}
}

func TestDialectFor(t *testing.T) {
	if DialectFor(false).Name() != "posix" {
		t.Fatalf("expected posix dialect")
	}
	if DialectFor(true).Name() != "windows" {
		t.Fatalf("expected windows dialect")
	}
}
