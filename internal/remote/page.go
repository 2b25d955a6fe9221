package remote

type pageData struct {
	Title     string
	Primary   string
	Secondary string
	BarWidth  int
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { background: #111; color: #ddd; font-family: monospace; margin: 0; padding: 2em; }
  h1 { font-size: 1.1em; color: {{.Primary}}; margin: 0 0 1em 0; }
  #bar { display: flex; align-items: center; gap: .5em; border: 1px solid #444; border-radius: 6px; padding: .5em; }
  #bar.playing { border-color: {{.Primary}}; }
  button { background: #222; color: #ddd; border: 1px solid #444; border-radius: 4px; min-width: 3em; padding: .3em .6em; font: inherit; cursor: pointer; }
  button.active { background: {{.Primary}}; color: #111; }
  #time { min-width: 5em; text-align: center; }
  #seek { flex: 1; height: .6em; background: #333; border-radius: 3px; cursor: pointer; position: relative; }
  #fill { height: 100%; width: 0; background: linear-gradient(90deg, {{.Primary}}, {{.Secondary}}); border-radius: 3px; }
  #status { margin-top: 1em; color: #c66; min-height: 1.2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="bar">
  <button id="rewind" data-type="rewind">&lt;&lt;</button>
  <button id="play" data-type="play-pause">&#9654;</button>
  <button id="stop" data-type="stop">&#9632;</button>
  <button id="forward" data-type="forward">&gt;&gt;</button>
  <span id="time">00:00:00</span>
  <div id="seek"><div id="fill"></div></div>
</div>
<div id="status"></div>
<script>
(function () {
  const barWidth = {{.BarWidth}};
  const $ = (id) => document.getElementById(id);
  let ws;

  function send(type, data) {
    if (!ws || ws.readyState !== WebSocket.OPEN) return;
    const ev = { type: type };
    if (data !== undefined) ev.data = data;
    ws.send(JSON.stringify(ev));
  }

  function render(s) {
    $("time").textContent = s.time;
    $("play").innerHTML = s.icon === "pause" ? "&#10074;&#10074;" : "&#9654;";
    $("bar").classList.toggle("playing", s.icon === "pause");
    $("rewind").classList.toggle("active", s.rewind);
    $("forward").classList.toggle("active", s.forward);
    $("fill").style.width = (100 * s.fill / barWidth) + "%";
  }

  function connect() {
    const proto = location.protocol === "https:" ? "wss://" : "ws://";
    ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = () => { $("status").textContent = ""; };
    ws.onmessage = (msg) => {
      const ev = JSON.parse(msg.data);
      if (ev.type === "state") render(ev.data);
      else if (ev.type === "error") $("status").textContent = ev.data;
    };
    ws.onclose = () => {
      $("status").textContent = "disconnected, retrying";
      setTimeout(connect, 2000);
    };
  }

  document.querySelectorAll("button[data-type]").forEach((b) => {
    b.addEventListener("click", () => send(b.dataset.type));
  });
  $("seek").addEventListener("click", (e) => {
    const r = e.currentTarget.getBoundingClientRect();
    if (r.width <= 0) return;
    send("seek", Math.min(Math.max((e.clientX - r.left) / r.width, 0), 1));
  });

  connect();
})();
</script>
</body>
</html>
`
