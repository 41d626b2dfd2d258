// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import "github.com/vechain/eoaproxy/metrics"

var (
	metricDispatch        = metrics.LazyLoadCounterVec("proxy_dispatch_count", []string{"kind"})
	metricProtectedOps    = metrics.LazyLoadCounterVec("proxy_protected_ops_count", []string{"op", "result"})
	metricSignatureChecks = metrics.LazyLoadCounterVec("proxy_signature_checks_count", []string{"path"})
)

// dispatch kinds
const (
	kindManagement     = "management"
	kindForward        = "forward"
	kindReceive        = "receive"
	kindNotInitialized = "not_initialized"
	kindGuarded        = "guarded_selector"
)

func countDispatch(kind string) {
	metricDispatch().AddWithLabel(1, map[string]string{"kind": kind})
}

func countProtected(op, result string) {
	metricProtectedOps().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

func countSignatureCheck(path string) {
	metricSignatureChecks().AddWithLabel(1, map[string]string{"path": path})
}
