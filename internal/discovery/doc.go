// Package discovery finds weather companions on the local network over mDNS.
//
// Companions advertise the "_weathersync._tcp" service in the "local."
// domain. The TXT record key "path" names the WebSocket endpoint; "/ws" is
// assumed when it is missing.
//
// # Usage Example
//
//	companions, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range companions {
//	    fmt.Println(c.Name, c.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Companions must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
