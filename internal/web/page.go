package web

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/dsg/pharmacy-finder/internal/finder"
)

const defaultTitle = "약국 추천 서비스"

type pageData struct {
	Title     string
	ScriptURL string
	Address   string
	Prompt    string
	View      finder.ResultsView
	// Skeleton has one entry per loading placeholder card.
	Skeleton    []int
	DirectHosts []string
	DropStale   bool
	Prompts     pagePrompts
}

type pagePrompts struct {
	AddressRequired string
	PickerNotReady  string
	Searching       string
}

// servePage renders the page. With ?address= it runs one search on a
// fresh session and renders its results.
func (s *Server) servePage(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("page")

	data := pageData{
		Title:       s.title,
		ScriptURL:   s.scriptURL,
		Skeleton:    make([]int, finder.PlaceholderCount),
		DirectHosts: s.directHosts,
		DropStale:   s.ordering == finder.LatestIssuedWins,
		Prompts: pagePrompts{
			AddressRequired: finder.PromptAddressRequired,
			PickerNotReady:  finder.PromptPickerNotReady,
			Searching:       finder.HeaderSearching,
		},
	}

	if address, ok := ctx.GetQuery("address"); ok {
		data.Address = address
		controller := finder.NewController(s.backend,
			finder.WithOrdering(s.ordering),
			finder.WithLogger(logger),
		)
		snap, err := controller.Search(ctx.Request.Context(), address)
		data.Prompt = finder.Prompt(err)
		data.View = snap.View()
		if snap.Err != nil {
			logger.Debug("render failed search as empty", zap.Error(snap.Err))
		}
	}

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := s.page.Execute(ctx.Writer, data); err != nil {
		logger.Warn("render page", zap.Error(err))
	}
}

const pageHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.ScriptURL}}" async></script>
<style>
:root { --bg: #f7f7f8; --fg: #1f2328; --card: #ffffff; --muted: #6b7280; --accent: #2563eb; --skeleton: #e5e7eb; }
:root[data-theme="dark"] { --bg: #111827; --fg: #f3f4f6; --card: #1f2937; --muted: #9ca3af; --accent: #60a5fa; --skeleton: #374151; }
body { margin: 0; font-family: system-ui, sans-serif; background: var(--bg); color: var(--fg); }
header { display: flex; justify-content: space-between; align-items: center; padding: 16px 24px; }
main { max-width: 720px; margin: 0 auto; padding: 0 16px 48px; }
form { display: flex; gap: 8px; margin-bottom: 24px; }
input { flex: 1; padding: 10px; font-size: 16px; }
button, .button { padding: 8px 14px; cursor: pointer; border: 1px solid var(--accent); background: transparent; color: var(--accent); text-decoration: none; border-radius: 6px; font-size: 14px; }
.prompt { color: #dc2626; }
.card { background: var(--card); border-radius: 10px; padding: 16px; margin-bottom: 12px; }
.card h3 { margin: 0 0 6px; }
.card p { margin: 0 0 6px; color: var(--muted); }
.card .actions { display: flex; gap: 8px; }
.skeleton .line { height: 14px; background: var(--skeleton); border-radius: 4px; margin-bottom: 8px; animation: pulse 1.2s infinite; }
.skeleton .line.short { width: 40%; }
@keyframes pulse { 50% { opacity: .5; } }
</style>
</head>
<body>
<header>
  <h1>가까운 약국 찾기</h1>
  <button type="button" id="theme-toggle">테마</button>
</header>
<main>
  <form id="search-form" method="get" action="/">
    <input id="address" name="address" type="text" placeholder="주소를 입력하세요" value="{{.Address}}" autocomplete="off">
    <button type="button" id="picker">주소 검색</button>
    <button type="submit">검색</button>
  </form>
  {{if .Prompt}}<p class="prompt" id="prompt">{{.Prompt}}</p>{{end}}

  <section id="results"{{if not .View.Visible}} hidden{{end}}>
    <h2 id="results-header">{{.View.Header}}</h2>
    <div id="results-list">
    {{if .View.Loading}}{{range .Skeleton}}
      <div class="card skeleton"><div class="line"></div><div class="line short"></div><div class="line short"></div></div>
    {{end}}{{end}}
    {{range .View.Cards}}
      <div class="card">
        <h3>{{.Name}}</h3>
        <p>{{.Address}}</p>
        <p>{{.Distance}}</p>
        <div class="actions">
          {{if .Direction.IsReady}}<a class="button" href="{{.Direction.URL}}" target="_blank" rel="noopener noreferrer">길찾기</a>
          {{else}}<button type="button" class="direction" data-direction-id="{{.Direction.ID}}">길찾기</button>{{end}}
          <a class="button" href="{{.RoadViewURL}}" target="_blank" rel="noopener noreferrer">로드뷰</a>
        </div>
      </div>
    {{end}}
    </div>
  </section>

  <template id="skeleton-template">
    {{range .Skeleton}}<div class="card skeleton"><div class="line"></div><div class="line short"></div><div class="line short"></div></div>{{end}}
  </template>
</main>
<script>
(function () {
  const directHosts = {{.DirectHosts}};
  const dropStale = {{.DropStale}};
  const prompts = {
    addressRequired: {{.Prompts.AddressRequired}},
    pickerNotReady: {{.Prompts.PickerNotReady}},
    searching: {{.Prompts.Searching}}
  };

  const root = document.documentElement;
  const storedTheme = window.localStorage.getItem("theme");
  if (storedTheme) { root.dataset.theme = storedTheme; }
  document.getElementById("theme-toggle").addEventListener("click", function () {
    const next = root.dataset.theme === "dark" ? "light" : "dark";
    root.dataset.theme = next;
    window.localStorage.setItem("theme", next);
  });

  const form = document.getElementById("search-form");
  const input = document.getElementById("address");
  const section = document.getElementById("results");
  const header = document.getElementById("results-header");
  const list = document.getElementById("results-list");
  const skeleton = document.getElementById("skeleton-template");
  let issued = 0;

  function directionOf(raw) {
    try {
      const u = new URL(raw);
      if ((u.protocol === "http:" || u.protocol === "https:") && directHosts.includes(u.hostname)) {
        return { ready: true, url: raw };
      }
      const parts = u.pathname.split("/").filter(Boolean);
      return { ready: false, id: parts.length ? parts[parts.length - 1] : "" };
    } catch (e) {
      const parts = String(raw || "").split("/").filter(Boolean);
      return { ready: false, id: parts.length ? parts[parts.length - 1] : "" };
    }
  }

  function el(tag, text, cls) {
    const node = document.createElement(tag);
    if (text !== undefined) { node.textContent = text; }
    if (cls) { node.className = cls; }
    return node;
  }

  function renderLoading() {
    section.hidden = false;
    header.textContent = prompts.searching;
    list.replaceChildren(skeleton.content.cloneNode(true));
  }

  function renderResults(query, records) {
    section.hidden = false;
    list.replaceChildren();
    if (!records.length) {
      header.textContent = query + " 주변에 추천 약국이 없습니다.";
      return;
    }
    header.textContent = query + " 주변 약국 " + records.length + "곳";
    records.forEach(function (r) {
      const card = el("div", undefined, "card");
      card.append(el("h3", r.pharmacyName), el("p", r.pharmacyAddress), el("p", "거리: " + r.distance));
      const actions = el("div", undefined, "actions");
      const direction = directionOf(r.directionUrl);
      if (direction.ready) {
        const a = el("a", "길찾기", "button");
        a.href = direction.url; a.target = "_blank"; a.rel = "noopener noreferrer";
        actions.append(a);
      } else {
        const b = el("button", "길찾기", "direction");
        b.type = "button"; b.dataset.directionId = direction.id;
        actions.append(b);
      }
      const road = el("a", "로드뷰", "button");
      road.href = r.roadViewUrl; road.target = "_blank"; road.rel = "noopener noreferrer";
      actions.append(road);
      card.append(actions);
      list.append(card);
    });
  }

  async function search(address) {
    const seq = ++issued;
    renderLoading();
    let records = [];
    try {
      const res = await fetch("/api/direction/search", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ address: address })
      });
      if (res.ok) {
        const body = await res.json();
        if (Array.isArray(body)) { records = body; }
      } else {
        console.error("search failed", res.status);
      }
    } catch (err) {
      console.error("search failed", err);
    }
    if (dropStale && seq !== issued) { return; }
    renderResults(address, records);
  }

  form.addEventListener("submit", function (e) {
    e.preventDefault();
    const address = input.value.trim();
    if (!address) { window.alert(prompts.addressRequired); return; }
    search(address);
  });

  document.getElementById("picker").addEventListener("click", function () {
    if (!window.daum || !window.daum.Postcode) { window.alert(prompts.pickerNotReady); return; }
    new window.daum.Postcode({
      oncomplete: function (data) {
        input.value = data.address;
        search(data.address);
      }
    }).open();
  });

  list.addEventListener("click", async function (e) {
    const button = e.target.closest("button.direction");
    if (!button) { return; }
    try {
      const res = await fetch("/api/direction/" + encodeURIComponent(button.dataset.directionId));
      if (!res.ok) { console.error("resolve direction failed", res.status); return; }
      const target = (await res.text()).trim();
      if (target) { window.open(target, "_blank", "noopener"); }
    } catch (err) {
      console.error("resolve direction failed", err);
    }
  });
})();
</script>
</body>
</html>
`
