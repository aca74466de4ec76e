// Package discovery finds slidecast presentation servers on the local network.
//
// Servers advertise themselves over multicast DNS with the "_slidecast._tcp"
// service type. The instance name is the deck title; TXT records carry the
// stream endpoint path ("stream=/ws") and optionally the page count
// ("pages=12").
//
// # Usage
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, s := range servers {
//	    fmt.Println(s.Instance, s.BaseURL())
//	}
//
// # Network Requirements
//
// Multicast must be allowed on the interface and UDP port 5353 must not be
// filtered. Servers on another network segment are not found.
package discovery
