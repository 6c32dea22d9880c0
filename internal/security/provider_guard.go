package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// ProviderGuard は外部の位置情報プロバイダへのアクセスを守る。
// 設定ファイルで指定されたURLを事前に検証し、
// 内部ネットワークへ到達できないHTTPクライアントを生成する。
type ProviderGuard interface {
	// NewSafeClient はプライベートIP、ループバック、リンクローカル、
	// メタデータIPへの接続をダイヤル時に拒否するHTTPクライアントを生成する。
	NewSafeClient(timeout time.Duration) *http.Client

	// ValidateURL はDNS解決を伴わない静的な検証を行う。
	ValidateURL(rawURL string) error
}

var allowedSchemes = []string{"http", "https"}

// blockedCIDRs は静的検証で拒否するネットワーク範囲。
var blockedCIDRs = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"fe80::/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR %s: %v", cidr, err))
		}
		out = append(out, network)
	}
	return out
}

type providerGuard struct{}

// NewProviderGuard はProviderGuardの新しいインスタンスを生成する。
func NewProviderGuard() *providerGuard {
	return &providerGuard{}
}

// NewSafeClient はsafeurlでラップしたHTTPクライアントを返す。
// safeurlはDialerのControlフックで解決後のIPを検証するため、
// DNS再バインディングもここで防がれる。
func (g *providerGuard) NewSafeClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(cfg).Client
}

// ValidateURL はプロバイダURLのスキームとホストを検証する。
func (g *providerGuard) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty provider URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid provider URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("disallowed scheme: %q", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in provider URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		for _, network := range blockedCIDRs {
			if network.Contains(ip) {
				return fmt.Errorf("blocked IP address: %s", ip)
			}
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}
	return nil
}
