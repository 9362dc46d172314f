package health

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderDashboardHTML returns the HTML status page served at GET /.
func RenderDashboardHTML(health CollectResult) string {
	b, _ := json.Marshal(health)
	jsonStr := string(b)
	// Escape for embedding in JS template literal: \ ` $
	jsonStr = strings.ReplaceAll(jsonStr, "\\", "\\\\")
	jsonStr = strings.ReplaceAll(jsonStr, "`", "\\`")
	jsonStr = strings.ReplaceAll(jsonStr, "$", "\\$")

	lastReqMethod, lastReqPath := "-", "-"
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		if v, ok := m["method"].(string); ok {
			lastReqMethod = v
		}
		if v, ok := m["path"].(string); ok {
			lastReqPath = v
		}
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Rentledger · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --ink: #1b2a3a; --ok: #0f766e; --err: #dc2626; --muted: #64748b; --bg: #f5f7fa; }
    body { background: var(--bg); color: var(--ink); font-family: system-ui, sans-serif; margin: 0; padding: 48px 20px; }
    .container { max-width: 980px; margin: 0 auto; }
    h1 { font-size: 44px; letter-spacing: -2px; margin: 0 0 8px; }
    .subtext { color: var(--muted); font-weight: 600; margin-bottom: 28px; }
    .card { background: #fff; border-radius: 20px; box-shadow: 0 20px 60px -20px rgba(27,42,58,.15); overflow: hidden; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 32px; border-right: 1px solid #eef1f4; }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; margin-bottom: 18px; }
    .big { font-size: 36px; font-weight: 800; margin-bottom: 10px; }
    .row { display: flex; justify-content: space-between; padding: 7px 0; font-size: 14px; font-weight: 600; border-bottom: 1px solid #f3f5f7; }
    .row:last-child { border-bottom: none; }
    .pill { padding: 3px 10px; border-radius: 8px; font-size: 11px; font-weight: 800; }
    .ok { background: rgba(15,118,110,.08); color: var(--ok); }
    .err { background: rgba(220,38,38,.08); color: var(--err); }
    .footer-req { background: #f8fafc; padding: 14px 32px; display: flex; justify-content: space-between; font-family: monospace; font-size: 13px; }
    .actions { margin-top: 20px; display: flex; gap: 12px; }
    button { border: 1px solid #d9dee4; background: #fff; padding: 8px 16px; border-radius: 8px; font-weight: 700; cursor: pointer; }
    #error-list { margin-top: 16px; font-size: 13px; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } .col { border-right: none; } }
  </style>
</head>
<body>
  <div class="container">
    <h1 id="headline">All Systems Operational</h1>
    <div class="subtext">Ledger API performance and dependencies.</div>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic</div>
          <div class="big" id="total-req">` + fmt.Sprint(health.Traffic.TotalRequests) + `</div>
          <div class="row"><span>Successful</span><span id="success-count">` + fmt.Sprint(health.Traffic.SuccessCount) + `</span></div>
          <div class="row"><span>Failed</span><span id="failed-count">` + fmt.Sprint(health.Traffic.FailedCount) + `</span></div>
          <div class="row"><span>Success Rate</span><span id="success-rate">` + health.Traffic.SuccessRate + `%</span></div>
          <div class="row"><span>Avg Latency</span><span id="avg-time">` + fmt.Sprint(health.Traffic.AvgResponseTime) + `ms</span></div>
        </div>
        <div class="col">
          <div class="label">Runtime</div>
          <div class="big" id="properties">` + fmt.Sprint(health.Ledger.Properties) + `</div>
          <div class="row"><span>Properties</span><span>registered</span></div>
          <div class="row"><span>Heap Used</span><span id="mem-heap">` + fmt.Sprint(health.Runtime.Memory.HeapUsed) + ` MB</span></div>
          <div class="row"><span>Goroutines</span><span id="goroutines">` + fmt.Sprint(health.Runtime.Goroutines) + `</span></div>
          <div class="row"><span>Platform</span><span>` + health.Runtime.Platform + `</span></div>
        </div>
        <div class="col">
          <div class="label">Connectivity</div>
          <div class="row"><span>Database</span><span id="pill-database" class="pill ok">--</span></div>
          <div class="row"><span>Redis</span><span id="pill-redis" class="pill ok">--</span></div>
          <div class="row"><span>Ledger</span><span id="pill-ledger" class="pill ok">--</span></div>
        </div>
      </div>
      <div class="footer-req">
        <span>LAST INBOUND <b id="req-method">` + lastReqMethod + `</b></span>
        <span id="req-path">` + lastReqPath + `</span>
      </div>
    </div>
    <div class="actions">
      <button onclick="tick()">Refresh</button>
      <button onclick="showErrors()">View Error Log</button>
    </div>
    <div id="error-list"></div>
  </div>
  <script>
    const updateUI = (d) => {
      document.getElementById('total-req').innerText = d.traffic.totalRequests;
      document.getElementById('success-count').innerText = d.traffic.successCount;
      document.getElementById('failed-count').innerText = d.traffic.failedCount;
      document.getElementById('success-rate').innerText = d.traffic.successRate + '%';
      document.getElementById('avg-time').innerText = d.traffic.avgResponseTime + 'ms';
      document.getElementById('properties').innerText = d.ledger.properties;
      document.getElementById('mem-heap').innerText = d.runtime.memory.heapUsed + ' MB';
      document.getElementById('goroutines').innerText = d.runtime.goroutines;
      if (d.traffic.lastRequest) { document.getElementById('req-method').innerText = d.traffic.lastRequest.method; document.getElementById('req-path').innerText = d.traffic.lastRequest.path; }
      for (const id of ['database', 'redis', 'ledger']) {
        const dep = d.dependencies[id]; const pill = document.getElementById('pill-' + id);
        pill.className = 'pill ' + (dep.status === 'connected' ? 'ok' : 'err');
        pill.innerText = dep.pingMs != null ? dep.pingMs + ' ms' : dep.status;
      }
      document.getElementById('headline').innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
    };
    async function tick() { try { const r = await fetch('/health/json'); updateUI(await r.json()); } catch (e) {} }
    async function showErrors() { const list = document.getElementById('error-list'); list.innerText = 'Fetching logs...'; try { const r = await fetch('/health/errors'); const errors = await r.json(); list.innerHTML = errors.length === 0 ? 'No internal errors recorded.' : errors.map(e => '<div><b>' + new Date(e.time).toLocaleString() + '</b> ' + (e.method||'') + ' ' + (e.path||'') + ' · ' + (e.message||'') + '</div>').join(''); } catch (e) { list.innerText = 'Error loading logs.'; } }
    updateUI(JSON.parse(` + "`" + jsonStr + "`" + `));
  </script>
</body>
</html>`
}
