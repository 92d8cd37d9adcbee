package adclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Entity é uma entidade de configuração (campanha, grupo, mídia) no formato devolvido pela API
type Entity = map[string]any

const maxEntityPages = 100

// campos sob os quais a API pode devolver a lista, em ordem de preferência
var entityListFields = []string{"datas", "data", "items", "results"}

func (c *AdClient) ListCampaigns(ctx context.Context) ([]Entity, error) {
	return c.listEntities(ctx, "campaigns", nil)
}

// ListAdGroups lista os grupos de anúncio; campaignID vazio traz os grupos de todas as campanhas
func (c *AdClient) ListAdGroups(ctx context.Context, campaignID string) ([]Entity, error) {
	var params map[string]any
	if campaignID != "" {
		params = map[string]any{"campaignId": campaignID}
	}
	return c.listEntities(ctx, "adgroups", params)
}

func (c *AdClient) ListMedia(ctx context.Context) ([]Entity, error) {
	return c.listEntities(ctx, "media", nil)
}

func (c *AdClient) listEntities(ctx context.Context, resource string, params map[string]any) ([]Entity, error) {
	endpoint := c.accountPath(resource)
	all := make([]Entity, 0)

	for page := 1; page <= maxEntityPages; page++ {
		query := map[string]any{"page": page, "size": c.pageSize}
		for k, v := range params {
			query[k] = v
		}

		var raw any
		if err := c.RequestJSON(ctx, http.MethodGet, endpoint, query, &raw); err != nil {
			return nil, err
		}

		items, total, paged := extractEntities(raw, resource)
		all = append(all, items...)

		if !paged || len(items) == 0 || len(items) < c.pageSize || total <= len(all) {
			return all, nil
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id": c.AccountID(),
		"resource":   resource,
		"pages":      maxEntityPages,
	}).Warn("adplatform: limite de páginas atingido, lista pode estar incompleta")

	return all, nil
}

// extractEntities aceita a lista na raiz ou sob um dos campos conhecidos.
// paged é falso quando a resposta não traz informação de paginação.
func extractEntities(raw any, resource string) (items []Entity, total int, paged bool) {
	switch v := raw.(type) {
	case []any:
		return toEntities(v), 0, false
	case map[string]any:
		for _, field := range append(entityListFields, resource) {
			if list, ok := v[field].([]any); ok {
				items = toEntities(list)
				break
			}
		}
		if items == nil {
			items = make([]Entity, 0)
		}

		paging, ok := v["paging"].(map[string]any)
		if !ok {
			return items, 0, false
		}
		return items, toInt(paging["totalElements"]), true
	default:
		return make([]Entity, 0), 0, false
	}
}

func toEntities(list []any) []Entity {
	entities := make([]Entity, 0, len(list))
	for _, item := range list {
		if entity, ok := item.(map[string]any); ok {
			entities = append(entities, entity)
		}
	}
	return entities
}

func toInt(v any) int {
	switch n := v.(type) {
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return int(i)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
