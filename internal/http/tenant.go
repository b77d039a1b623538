package httpapi

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// shopDomainRe Shopify shop domain shape: alphanumeric/hyphen label plus the
// fixed myshopify.com suffix.
var shopDomainRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// TenantContext identifier and credential scoping one request.
type TenantContext struct {
	ShopDomain  string
	AccessToken string
}

// resolveTenant extracts the shop domain (query param, then header, then the
// shop_domain body field) and the access token (header, then the process-wide
// fallback). First match wins per field. The token may be empty here;
// operations that need one reject later.
func resolveTenant(r *http.Request, bodyShopDomain, fallbackToken string) (TenantContext, error) {
	shopDomain := r.URL.Query().Get("shop")
	if shopDomain == "" {
		shopDomain = r.Header.Get("X-Shop-Domain")
	}
	if shopDomain == "" {
		shopDomain = bodyShopDomain
	}
	if shopDomain == "" {
		return TenantContext{}, fmt.Errorf("%w: missing shop domain (provide ?shop=, body.shop_domain, or X-Shop-Domain header)", domain.ErrValidation)
	}
	if !shopDomainRe.MatchString(shopDomain) {
		return TenantContext{}, fmt.Errorf("%w: invalid shop domain format, expected shop-name.myshopify.com", domain.ErrValidation)
	}

	token := r.Header.Get("X-Shopify-Access-Token")
	if token == "" {
		token = fallbackToken
	}

	return TenantContext{ShopDomain: shopDomain, AccessToken: token}, nil
}

// resolveDashboardShop dashboard endpoints take the shop via query only
// (shop_domain, with ?shop= accepted as an alias).
func resolveDashboardShop(r *http.Request) (string, error) {
	shopDomain := r.URL.Query().Get("shop_domain")
	if shopDomain == "" {
		shopDomain = r.URL.Query().Get("shop")
	}
	if shopDomain == "" {
		return "", fmt.Errorf("%w: shop_domain is required", domain.ErrValidation)
	}
	if !shopDomainRe.MatchString(shopDomain) {
		return "", fmt.Errorf("%w: invalid shop domain format, expected shop-name.myshopify.com", domain.ErrValidation)
	}
	return shopDomain, nil
}
