package ui

import (
	"html/template"
)

var funcs = template.FuncMap{
	"money":      Money,
	"percent":    Percent,
	"delta":      Delta,
	"deltaClass": deltaClass,
	"date":       date,
}

var views = template.Must(template.New("views").Funcs(funcs).Parse(`
{{define "metrics"}}<div id="metrics" class="metrics">
<div class="metric-card"><span class="metric-label">Total Sales</span><span class="metric-value">{{money .TotalSales}}</span></div>
<div class="metric-card"><span class="metric-label">Total Profit</span><span class="metric-value">{{money .TotalProfit}}</span></div>
{{if .HasMargin}}<div class="metric-card"><span class="metric-label">Profit Margin</span><span class="metric-value">{{percent .MarginPct}}</span>
{{if .DeltaPct.Valid}}<span class="metric-delta {{deltaClass .DeltaPct}}">{{delta .DeltaPct}}</span>{{end}}
</div>{{end}}
</div>{{end}}

{{define "trend"}}<div id="trend">
{{if .}}<table class="modern-table">
<thead><tr><th>Order Date</th><th>Sub-Category</th><th>Sales</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{date .OrderDate}}</td><td>{{.SubCategory}}</td><td>{{money .Sales}}</td></tr>
{{end}}</tbody>
</table>{{else}}<p class="empty">No sub-categories selected.</p>{{end}}
</div>{{end}}

{{define "records"}}<div id="records">
{{if .Rows}}<table class="modern-table">
<thead><tr><th>Order Date</th><th>Category</th><th>Sub-Category</th><th>Sales</th><th>Profit</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{date .OrderDate}}</td><td><span class="category-badge">{{.Category}}</span></td><td>{{.SubCategory}}</td><td>{{money .Sales}}</td><td>{{money .Profit}}</td></tr>
{{end}}</tbody>
</table>
{{if gt .Total (len .Rows)}}<p class="table-note">Showing {{len .Rows}} of {{.Total}} records.</p>{{end}}
{{else}}<p class="empty">No matching records.</p>{{end}}
</div>{{end}}

{{define "categorySales"}}<div id="category-sales"><table class="modern-table">
<thead><tr><th>Category</th><th>Sales</th><th>Profit</th><th>Orders</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Category}}</td><td>{{money .Sales}}</td><td>{{money .Profit}}</td><td>{{.Records}}</td></tr>
{{end}}</tbody>
</table></div>{{end}}

{{define "monthlySales"}}<div id="monthly-sales"><table class="modern-table">
<thead><tr><th>Month</th><th>Sales</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Period}}</td><td>{{money .Sales}}</td></tr>
{{end}}</tbody>
</table></div>{{end}}

{{define "subCategorySelect"}}<select id="sub-category-select" multiple data-bind-sub-categories data-on-change="@get('/sse/views')">
{{range .}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>
</head>
<body>
<main data-signals="{{.Signals}}">
<h1>Sales Dashboard</h1>
<section class="overview">
<h2>Sales by Category</h2>
{{template "categorySales" .Views.CategorySales}}
<h2>Sales by Month</h2>
{{template "monthlySales" .Views.MonthlySales}}
</section>
<section class="filters">
<label>Category <select data-bind-category data-on-change="@get('/sse/sub-categories')">
{{range .Categories}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select></label>
<label>Sub-Categories {{template "subCategorySelect" .SubCategories}}</label>
</section>
<section class="selection">
{{template "metrics" .Views.Metrics}}
{{template "trend" .Views.Trend}}
{{template "records" .Records}}
</section>
<a href="/api/export.xlsx" data-attr-href="'/api/export.xlsx?category=' + encodeURIComponent($category) + $subCategories.map(s => '&sub_category=' + encodeURIComponent(s)).join('')">Download workbook</a>
</main>
</body>
</html>{{end}}
`))
