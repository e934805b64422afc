package web

// indexHTML is the single-page dashboard: a live table of decoded link
// setups fed over the WebSocket event stream.
var indexHTML = []byte(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>M17-Nexus</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
h1 { color: #7fc97f; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #333; padding: 4px 8px; text-align: left; }
.bad { color: #e66; }
.good { color: #7fc97f; }
</style>
</head>
<body>
<h1>M17-Nexus</h1>
<p id="status">connecting&hellip;</p>
<table>
<thead><tr><th>Time</th><th>Event</th><th>SRC</th><th>DST</th><th>TYPE</th><th>Detail</th></tr></thead>
<tbody id="events"></tbody>
</table>
<script>
const tbody = document.getElementById('events');
const status = document.getElementById('status');
const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onopen = () => { status.textContent = 'listening'; };
ws.onclose = () => { status.textContent = 'disconnected'; };
ws.onmessage = (msg) => {
  const ev = JSON.parse(msg.data);
  const row = tbody.insertRow(0);
  const detail = ev.type === 'sms' ? ev.data.sms
    : ev.type === 'signature' ? (ev.data.valid ? 'signature OK' : 'signature INVALID')
    : (ev.data.meta || '');
  row.innerHTML = '<td>' + new Date(ev.timestamp).toLocaleTimeString() + '</td>'
    + '<td>' + ev.type + '</td>'
    + '<td>' + (ev.data.src || '') + '</td>'
    + '<td>' + (ev.data.dst || '') + '</td>'
    + '<td>' + (ev.data.type || '') + '</td>'
    + '<td class="' + (ev.type === 'signature' ? (ev.data.valid ? 'good' : 'bad') : '') + '">' + detail + '</td>';
  while (tbody.rows.length > 100) tbody.deleteRow(-1);
};
</script>
</body>
</html>
`)
