package fixture

import "html/template"

// Page templates are kept inline; the fixture has no static asset pipeline.
// Every interactive element carries the data-testid the suite targets first,
// plus the semantic fallback attributes the locator chains degrade to.

const layoutTmpl = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>AIrWAVE — {{.Title}}</title></head>
<body data-demo-mode="{{if .Demo}}true{{else}}false{{end}}">
{{if .Email}}
<header>
  <nav>
    <a data-testid="nav-dashboard" href="/dashboard">Dashboard</a>
    <a data-testid="nav-assets" href="/assets">Assets</a>
    <a data-testid="nav-matrix" href="/matrix">Matrix</a>
    <a data-testid="nav-strategy" href="/strategy">Strategy</a>
  </nav>
  <div>
    <button data-testid="client-selector" id="client-selector" type="button"
      onclick="document.getElementById('client-options').style.display='block'">Switch client</button>
    <div id="client-options" style="display:none">
      {{range .Clients}}
      <form method="post" action="/client">
        <button data-testid="client-option" class="client-option" name="client" value="{{.}}">{{.}}</button>
      </form>
      {{end}}
    </div>
    <span data-testid="active-client" class="active-client">{{.ActiveClient}}</span>
  </div>
  <button data-testid="user-menu" class="user-menu" type="button"
    onclick="document.getElementById('user-menu-items').style.display='block'">{{.Email}}</button>
  <div id="user-menu-items" style="display:none">
    <form method="post" action="/logout">
      <button data-testid="logout-button" type="submit">Log out</button>
    </form>
  </div>
</header>
{{end}}
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const loginTmpl = `{{define "content"}}
<h1>Sign in</h1>
{{if .Error}}<div data-testid="login-error" class="error-banner" role="alert">{{.Error}}</div>{{end}}
<form method="post" action="/login">
  <input data-testid="email-input" id="email" name="email" type="email" placeholder="Email">
  <input data-testid="password-input" id="password" name="password" type="password" placeholder="Password">
  <button data-testid="login-submit" type="submit">Sign in</button>
</form>
<form method="post" action="/login/demo">
  <button data-testid="demo-login" type="submit">Try demo</button>
</form>
{{end}}`

const dashboardTmpl = `{{define "content"}}
<h1>Campaign dashboard</h1>
<article data-testid="campaign-brief" class="brief">{{.Brief}}</article>
{{end}}`

const assetsTmpl = `{{define "content"}}
<h1>Asset library</h1>
{{if .Uploaded}}<div data-testid="upload-complete">Upload complete</div>{{end}}
<form id="upload-form" method="post" action="/assets/upload" enctype="multipart/form-data">
  <input data-testid="asset-file-input" id="asset-file" name="assets" type="file" multiple
    style="display:none" onchange="this.form.submit()">
  <button data-testid="upload-button" type="button" aria-label="Upload assets"
    onclick="document.getElementById('asset-file').click()">Upload assets</button>
</form>
<div data-testid="asset-dropzone" id="dropzone" class="dropzone">Drop files here</div>
<ul data-testid="asset-list" class="assets">
  {{range .Assets}}<li data-testid="asset-item">{{.Name}}</li>{{end}}
</ul>
<script>
(function () {
  var zone = document.getElementById('dropzone');
  zone.addEventListener('dragover', function (e) { e.preventDefault(); });
  zone.addEventListener('drop', function (e) {
    e.preventDefault();
    var form = new FormData();
    for (var i = 0; i < e.dataTransfer.files.length; i++) {
      form.append('assets', e.dataTransfer.files[i]);
    }
    fetch('/assets/upload', { method: 'POST', body: form })
      .then(function () { window.location = '/assets?uploaded=1'; });
  });
})();
</script>
{{end}}`

const matrixTmpl = `{{define "content"}}
<h1>Campaign matrix</h1>
<button data-testid="generate-button" type="button" aria-label="Generate">Generate</button>
<div data-testid="generation-status" class="generation-status">idle</div>
<div data-testid="generation-complete" id="generation-complete" style="display:none">Generation complete</div>
<script>
(function () {
  var button = document.querySelector('[data-testid=generate-button]');
  var status = document.querySelector('[data-testid=generation-status]');
  button.addEventListener('click', function () {
    status.textContent = 'running';
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var socket = new WebSocket(proto + location.host + '/ws/generation');
    socket.onmessage = function (event) {
      var msg = JSON.parse(event.data);
      if (msg.type === 'generation_progress') {
        status.textContent = 'running ' + msg.progress + '%';
      }
      if (msg.type === 'generation_complete') {
        status.textContent = 'done';
        document.getElementById('generation-complete').style.display = 'block';
      }
    };
  });
})();
</script>
{{end}}`

const strategyTmpl = `{{define "content"}}
<h1>Strategy</h1>
<form method="post" action="/strategy">
  <textarea data-testid="brief-input" name="brief" placeholder="Campaign brief">{{.BriefInput}}</textarea>
  <button data-testid="generate-motivations" type="submit" aria-label="Generate motivations">Generate motivations</button>
</form>
<div data-testid="motivation-list" class="motivations">
  {{range .Motivations}}
  <div data-testid="motivation-card" class="motivation-card"><h3>{{.}}</h3></div>
  {{end}}
</div>
{{end}}`

func mustPage(content string) *template.Template {
	return template.Must(template.Must(template.New("layout").Parse(layoutTmpl)).Parse(content))
}

var (
	loginPage     = mustPage(loginTmpl)
	dashboardPage = mustPage(dashboardTmpl)
	assetsPage    = mustPage(assetsTmpl)
	matrixPage    = mustPage(matrixTmpl)
	strategyPage  = mustPage(strategyTmpl)
)
