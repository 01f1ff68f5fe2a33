/*
	privnet package reports whether a host name resolves into a loopback,
	private or link-local network block. The fetcher uses it to refuse
	following links that point back into the machine or its network.
*/

package privnet

import (
	"fmt"
	"net"
)

// Blocks reserved for loopback, RFC1918 private ranges, link-local
// addressing and a few special purpose ranges.
var defaultCIDRs = []string{
	"127.0.0.0/8",
	"::1/128",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"fe80::/10",
	"0.0.0.0/8",
	"255.255.255.255/32",
	"fc00::/7",
}

// Detector checks host names against a list of private network blocks.
type Detector struct {
	blocks []*net.IPNet
}

// NewDetector returns a Detector loaded with the default private blocks.
func NewDetector() (*Detector, error) {
	return NewDetectorFromCIDRs(defaultCIDRs...)
}

// NewDetectorFromCIDRs returns a Detector loaded with the given blocks
// instead of the defaults.
func NewDetectorFromCIDRs(cidrs ...string) (*Detector, error) {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("privnet: parse %q: %w", cidr, err)
		}

		blocks = append(blocks, block)
	}

	return &Detector{blocks: blocks}, nil
}

// IsNetworkPrivate resolves host and reports whether its address belongs to
// one of the detector's blocks. IP literals are checked without a lookup.
func (d *Detector) IsNetworkPrivate(host string) (bool, error) {
	ip := net.ParseIP(host)
	if ip == nil {
		addr, err := net.ResolveIPAddr("ip", host)
		if err != nil {
			return false, err
		}

		ip = addr.IP
	}

	for _, block := range d.blocks {
		if block.Contains(ip) {
			return true, nil
		}
	}

	return false, nil
}
