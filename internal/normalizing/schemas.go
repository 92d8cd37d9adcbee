package normalizing

import (
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
)

// Field é uma coluna canônica e os nomes pelos quais ela pode aparecer na resposta
type Field struct {
	Name    string
	Kind    FieldKind
	Aliases []string
}

// Schema define a ordem fixa das colunas de uma tabela de saída.
// O primeiro campo identifica a linha: linhas sem ele são descartadas.
type Schema struct {
	Type   domain.ReportType
	Fields []Field
}

// Header devolve o cabeçalho canônico, sempre começando pela conta
func (s Schema) Header() []string {
	header := make([]string, 0, len(s.Fields)+2)
	header = append(header, "account_id", "account_name")
	for _, f := range s.Fields {
		header = append(header, f.Name)
	}
	return header
}

// AccountHeader é o cabeçalho da tabela de contas, montada a partir do registro
var AccountHeader = []string{"account_id", "account_name", "fetched_at"}

var (
	dateAliases         = []string{"日付", "日", "date", "day", "stat_date"}
	campaignIDAliases   = []string{"キャンペーンID", "campaignId", "campaign_id", "campaign id"}
	campaignNameAliases = []string{"キャンペーン名", "campaignName", "campaign_name", "campaign name", "campaign"}
	adGroupIDAliases    = []string{"広告グループID", "adgroupId", "adGroupId", "adgroup_id", "ad group id"}
	adGroupNameAliases  = []string{"広告グループ名", "adgroupName", "adGroupName", "adgroup_name", "ad group name", "ad group"}
	adIDAliases         = []string{"広告ID", "adId", "ad_id", "ad id"}
	adNameAliases       = []string{"広告名", "adName", "ad_name", "ad name", "ad"}
	statusAliases       = []string{"ステータス", "配信ステータス", "status", "configuredStatus", "deliveryStatus"}

	impressionAliases = []string{"インプレッション", "インプレッション数", "imp", "imps", "impressions"}
	clickAliases      = []string{"クリック", "クリック数", "clicks", "click"}
	costAliases       = []string{"費用", "コスト", "消化金額", "cost", "spend"}
	conversionAliases = []string{"コンバージョン", "コンバージョン数", "cv", "conversions", "conversion"}
	videoViewAliases  = []string{"動画再生数", "動画の再生数", "video views", "videoViews", "video_views"}
)

func metricFields() []Field {
	return []Field{
		{Name: "impressions", Kind: KindNumber, Aliases: impressionAliases},
		{Name: "clicks", Kind: KindNumber, Aliases: clickAliases},
		{Name: "cost", Kind: KindNumber, Aliases: costAliases},
		{Name: "conversions", Kind: KindNumber, Aliases: conversionAliases},
	}
}

func breakdownSchema(t domain.ReportType, attribute Field) Schema {
	fields := []Field{
		{Name: "date", Aliases: dateAliases},
		{Name: "campaign_id", Aliases: campaignIDAliases},
		{Name: "campaign_name", Aliases: campaignNameAliases},
		{Name: "adgroup_id", Aliases: adGroupIDAliases},
		{Name: "adgroup_name", Aliases: adGroupNameAliases},
		attribute,
	}
	return Schema{Type: t, Fields: append(fields, metricFields()...)}
}

var schemas = map[domain.ReportType]Schema{
	domain.ReportTypeCampaign: {
		Type: domain.ReportTypeCampaign,
		Fields: []Field{
			{Name: "campaign_id", Aliases: append([]string{"id"}, campaignIDAliases...)},
			{Name: "campaign_name", Aliases: append([]string{"name"}, campaignNameAliases...)},
			{Name: "status", Aliases: statusAliases},
			{Name: "campaign_goal", Aliases: []string{"キャンペーン目的", "campaignGoal", "objective", "goal"}},
			{Name: "budget", Kind: KindNumber, Aliases: []string{"予算", "日予算", "budget", "budget.amount", "dailyBudget", "daily_budget"}},
			{Name: "start_date", Aliases: []string{"開始日", "startDate", "start_date", "schedule.startDate"}},
			{Name: "end_date", Aliases: []string{"終了日", "endDate", "end_date", "schedule.endDate"}},
		},
	},
	domain.ReportTypeAdGroup: {
		Type: domain.ReportTypeAdGroup,
		Fields: []Field{
			{Name: "adgroup_id", Aliases: append([]string{"id"}, adGroupIDAliases...)},
			{Name: "adgroup_name", Aliases: append([]string{"name"}, adGroupNameAliases...)},
			{Name: "campaign_id", Aliases: campaignIDAliases},
			{Name: "status", Aliases: statusAliases},
			{Name: "bid_amount", Kind: KindNumber, Aliases: []string{"入札価格", "入札単価", "bidAmount", "bid.amount", "bid_amount", "bid"}},
			{Name: "bid_strategy", Aliases: []string{"入札戦略", "bidStrategy", "bid.strategy", "bid_strategy"}},
		},
	},
	domain.ReportTypeMedia: {
		Type: domain.ReportTypeMedia,
		Fields: []Field{
			{Name: "media_id", Aliases: []string{"メディアID", "mediaId", "media_id", "id"}},
			{Name: "media_name", Aliases: []string{"メディア名", "mediaName", "media_name", "name"}},
			{Name: "media_type", Aliases: []string{"メディアタイプ", "種類", "mediaType", "media_type", "type"}},
			{Name: "file_name", Aliases: []string{"ファイル名", "fileName", "file_name"}},
			{Name: "width", Kind: KindNumber, Aliases: []string{"幅", "width", "imageWidth"}},
			{Name: "height", Kind: KindNumber, Aliases: []string{"高さ", "height", "imageHeight"}},
			{Name: "status", Aliases: statusAliases},
		},
	},
	domain.ReportTypeAd: {
		Type: domain.ReportTypeAd,
		Fields: append([]Field{
			{Name: "date", Aliases: dateAliases},
			{Name: "campaign_id", Aliases: campaignIDAliases},
			{Name: "campaign_name", Aliases: campaignNameAliases},
			{Name: "adgroup_id", Aliases: adGroupIDAliases},
			{Name: "adgroup_name", Aliases: adGroupNameAliases},
			{Name: "ad_id", Aliases: adIDAliases},
			{Name: "ad_name", Aliases: adNameAliases},
		}, append(metricFields(), Field{Name: "video_views", Kind: KindNumber, Aliases: videoViewAliases})...),
	},
	domain.ReportTypeGender: breakdownSchema(domain.ReportTypeGender,
		Field{Name: "gender", Aliases: []string{"性別", "gender"}}),
	domain.ReportTypeAge: breakdownSchema(domain.ReportTypeAge,
		Field{Name: "age", Aliases: []string{"年齢", "年齢層", "age", "age range"}}),
	domain.ReportTypeDevice: breakdownSchema(domain.ReportTypeDevice,
		Field{Name: "os", Aliases: []string{"OS", "デバイス", "OS/デバイス", "device", "operating system"}}),
}

// SchemaFor devolve o schema de um tipo de relatório. A tabela de contas não tem schema de resposta.
func SchemaFor(t domain.ReportType) (Schema, bool) {
	s, ok := schemas[t]
	return s, ok
}
