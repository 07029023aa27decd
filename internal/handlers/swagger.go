package handlers

// @title TripleWhale Order Proxy
// @version 1.0
// @description Validates order payloads and forwards them to the TripleWhale order ingestion API

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name orders
// @tag.description Order forwarding

// @tag.name debug
// @tag.description Request and configuration diagnostics
