//go:build linux

package netstat

import (
	"errors"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

type netlinkSource struct{}

func newOSSource() CounterSource {
	return netlinkSource{}
}

func (netlinkSource) Counters(name string) (Counters, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return Counters{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
		}
		return Counters{}, fmt.Errorf("lookup %s: %w", name, err)
	}
	stats := link.Attrs().Statistics
	if stats == nil {
		return Counters{}, fmt.Errorf("no statistics for %s", name)
	}
	return Counters{RxBytes: stats.RxBytes, TxBytes: stats.TxBytes}, nil
}

func (netlinkSource) Interfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	ifaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		ifaces = append(ifaces, Interface{
			Name: attrs.Name,
			Up:   attrs.Flags&net.FlagUp != 0,
		})
	}
	return ifaces, nil
}
