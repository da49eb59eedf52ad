package publish

import (
	"encoding/base64"
	"fmt"
	"net"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultScheme = "http"
	qrImageSize   = 256

	// Dialing a public address never sends packets over UDP; it only
	// forces the kernel to pick the outbound interface.
	outboundProbeAddr = "8.8.8.8:80"
)

// BaseURL returns the scheme://host:port/ prefix artifact URLs hang off.
// publicHost overrides detection; otherwise loopback and wildcard binds
// are replaced with the machine's LAN address when one can be determined.
func BaseURL(publicHost, bindHost, port string) string {
	host := publicHost
	if host == "" {
		host = bindHost
		if isUnroutable(host) {
			if lan := outboundIP(); lan != "" {
				host = lan
			} else if host == "" || host == "0.0.0.0" || host == "::" {
				host = "localhost"
			}
		}
	}
	return fmt.Sprintf("%s://%s/", defaultScheme, net.JoinHostPort(host, port))
}

func isUnroutable(host string) bool {
	switch host {
	case "", "0.0.0.0", "::", "127.0.0.1", "localhost":
		return true
	}
	return false
}

// outboundIP returns the local address the kernel would use for outbound
// traffic, or "" when no route exists.
func outboundIP() string {
	conn, err := net.Dial("udp", outboundProbeAddr)
	if err != nil {
		return ""
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}

// ArtifactURL builds the public download URL for a job's deliverable
func ArtifactURL(base, jobID, filename string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%sdownload/%s/%s", base, jobID, url.PathEscape(filename))
}

// QRDataURL renders text as a PNG QR code wrapped in a base64 data URL
func QRDataURL(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Low, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
