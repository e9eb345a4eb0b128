package diagnostic

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/datasource"
)

// Severity ranks how much attention a failure needs
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// DiagnosticResult represents the diagnosis of a failed remote call
type DiagnosticResult struct {
	Kind     datasource.ErrorKind
	Severity Severity
	Action   string
}

// Diagnose classifies an error and picks a recommended action for the operator
func Diagnose(err error, server, locale string) (DiagnosticResult, bool) {
	kind, ok := datasource.KindOf(err)
	if !ok {
		return DiagnosticResult{}, false
	}

	result := DiagnosticResult{
		Kind:     kind,
		Severity: GetSeverity(err),
		Action:   RecommendedAction(err, server, locale),
	}
	return result, true
}

// RecommendedAction returns the recommended action for an error in the given locale
func RecommendedAction(err error, server, locale string) string {
	if strings.HasPrefix(locale, "zh") {
		return GetRecommendedActionChinese(err, server)
	}
	return GetRecommendedAction(err, server)
}

// GetSeverity returns how serious a failure is. Losing the connection is critical.
func GetSeverity(err error) Severity {
	var dsErr *datasource.Error
	if !errors.As(err, &dsErr) {
		return SeverityInfo
	}
	switch dsErr.Kind {
	case datasource.KindConnection:
		return SeverityCritical
	case datasource.KindServer:
		if dsErr.Code >= http.StatusInternalServerError {
			return SeverityCritical
		}
		return SeverityWarning
	default:
		return SeverityWarning
	}
}

// GetRecommendedAction returns the recommended action for a failed call
func GetRecommendedAction(err error, server string) string {
	var dsErr *datasource.Error
	if !errors.As(err, &dsErr) {
		return ""
	}

	switch dsErr.Kind {
	case datasource.KindConnection:
		if isCertificateError(dsErr) {
			return "Certificate rejected # Use --skip-cert-verification for self-signed environments"
		}
		return fmt.Sprintf("curl -k https://%s/api/v1/health # Check the server is running and reachable", server)
	case datasource.KindTimeout:
		return "Server is slow to answer # Raise server.request_timeout or check server load"
	case datasource.KindServer:
		switch {
		case dsErr.Code == http.StatusUnauthorized || dsErr.Code == http.StatusForbidden:
			return "Access denied # Check the tenant and credentials of this environment"
		case dsErr.Code == http.StatusNotFound:
			return "Resource not found # The tenant or instance may have been removed"
		case dsErr.Code >= http.StatusInternalServerError:
			return "Server error # Check the Runtara server logs"
		default:
			return "Request rejected # Check --tenant and the server version"
		}
	default:
		return ""
	}
}

// GetRecommendedActionChinese returns the recommended action in Chinese
func GetRecommendedActionChinese(err error, server string) string {
	var dsErr *datasource.Error
	if !errors.As(err, &dsErr) {
		return ""
	}

	switch dsErr.Kind {
	case datasource.KindConnection:
		if isCertificateError(dsErr) {
			return "证书被拒绝 # 自签名环境请使用 --skip-cert-verification"
		}
		return fmt.Sprintf("curl -k https://%s/api/v1/health # 检查服务是否运行且可达", server)
	case datasource.KindTimeout:
		return "服务响应缓慢 # 调大 server.request_timeout 或检查服务负载"
	case datasource.KindServer:
		switch {
		case dsErr.Code == http.StatusUnauthorized || dsErr.Code == http.StatusForbidden:
			return "访问被拒绝 # 检查该环境的租户和凭据"
		case dsErr.Code == http.StatusNotFound:
			return "资源不存在 # 租户或实例可能已被删除"
		case dsErr.Code >= http.StatusInternalServerError:
			return "服务端错误 # 查看 Runtara 服务日志"
		default:
			return "请求被拒绝 # 检查 --tenant 参数和服务版本"
		}
	default:
		return ""
	}
}

func isCertificateError(err *datasource.Error) bool {
	if err.Cause == nil {
		return false
	}
	msg := err.Cause.Error()
	return strings.Contains(msg, "x509") || strings.Contains(msg, "certificate")
}
