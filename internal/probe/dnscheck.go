package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNSClass summarizes how a host name resolved.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSServFail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

var dnsLookupBudget = 3 * time.Second

// DNSStatus is a best-effort diagnosis used to explain failed probes.
type DNSStatus struct {
	Host          string
	Class         DNSClass
	IPs           []string
	CNAME         string
	Nameservers   []string
	ResolverError string
}

// Resolver is the subset of *net.Resolver used for diagnostics.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DiagnoseURL extracts the host from rawURL and classifies its DNS state.
func DiagnoseURL(ctx context.Context, r Resolver, rawURL string) DNSStatus {
	return DiagnoseHost(ctx, r, HostOf(rawURL))
}

// DiagnoseHost classifies host. A nil resolver uses the OS resolver.
func DiagnoseHost(ctx context.Context, r Resolver, host string) DNSStatus {
	s := DNSStatus{Host: strings.TrimSpace(host)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Host); ip != nil {
		s.Class = DNSResolves
		s.IPs = []string{ip.String()}
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, dnsLookupBudget)
	defer cancel()

	addrs, err := r.LookupIPAddr(ctx, s.Host)
	switch {
	case err == nil && len(addrs) > 0:
		s.Class = DNSResolves
		for _, a := range addrs {
			s.IPs = append(s.IPs, a.IP.String())
		}
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServFail
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Host); err == nil && !strings.EqualFold(cname, s.Host+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := r.LookupNS(ctx, s.Host); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		// the zone exists, it just has no address records
		if s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	if s.Class == "" {
		switch {
		case len(s.Nameservers) > 0:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServFail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}

// HostOf pulls the hostname out of a URL, returning raw unchanged when it
// does not parse as one.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
