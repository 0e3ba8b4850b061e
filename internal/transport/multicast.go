// File: internal/transport/multicast.go
// Author: momentics <momentics@gmail.com>
//
// Multicast group membership for RX flow attachment. Not grounded in the
// example pack — no pack repo manages IGMP group membership, and the
// standard net package exposes no JoinGroup call, so this uses x/net/ipv4
// directly (see DESIGN.md).
package transport

import (
	"net"

	"golang.org/x/net/ipv4"
)

func isMulticast(ip string) bool {
	addr := net.ParseIP(ip)
	return addr != nil && addr.IsMulticast()
}

func joinMulticastIfNeeded(conn *net.UDPConn, dstIP string) error {
	if !isMulticast(dstIP) {
		return nil
	}
	pc := ipv4.NewPacketConn(conn)
	iface := &net.Interface{}
	return pc.JoinGroup(iface, &net.UDPAddr{IP: net.ParseIP(dstIP)})
}

func leaveMulticastIfNeeded(conn *net.UDPConn, dstIP string) error {
	if !isMulticast(dstIP) {
		return nil
	}
	pc := ipv4.NewPacketConn(conn)
	iface := &net.Interface{}
	return pc.LeaveGroup(iface, &net.UDPAddr{IP: net.ParseIP(dstIP)})
}
