package tuning

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed havenvoy.yaml
var defaultYAML []byte

// Tuning is the immutable data table the simulation is parameterized over.
// It is loaded once and shared by pointer; nothing mutates it after Load.
type Tuning struct {
	SaveVersion int `yaml:"save_version" json:"save_version"`

	Goods          []Good          `yaml:"goods" json:"goods"`
	Islands        []Island        `yaml:"islands" json:"islands"`
	Factions       []Faction       `yaml:"factions" json:"factions"`
	Upgrades       []Upgrade       `yaml:"upgrades" json:"upgrades"`
	Titles         []TitleTrack    `yaml:"titles" json:"titles"`
	ContractTypes  []ContractType  `yaml:"contract_types" json:"contract_types"`
	LocalEvents    []LocalEvent    `yaml:"local_events" json:"local_events"`
	RegionalEvents []RegionalEvent `yaml:"regional_events" json:"regional_events"`
	SeasonalEvents []SeasonalEvent `yaml:"seasonal_events" json:"seasonal_events"`
	Encounters     Encounters      `yaml:"encounters" json:"encounters"`
	PortStates     []PortState     `yaml:"port_states" json:"port_states"`
	Seasons        []Season        `yaml:"seasons" json:"seasons"`
	DriftEntities  []DriftKind     `yaml:"drift_entities" json:"drift_entities"`
	RumorTemplates []RumorTemplate `yaml:"rumor_templates" json:"rumor_templates"`
	ShipClasses    []ShipClass     `yaml:"ship_classes" json:"ship_classes"`
	Officers       []Officer       `yaml:"officers" json:"officers"`
	HiddenCoves    []Cove          `yaml:"hidden_coves" json:"hidden_coves"`
	Questlines     []Questline     `yaml:"questlines" json:"questlines"`
	Wind           Wind            `yaml:"wind" json:"wind"`
	CrewNames      CrewNames       `yaml:"crew_names" json:"crew_names"`

	Settings      Settings      `yaml:"settings" json:"settings"`
	Balance       Balance       `yaml:"balance" json:"balance"`
	MetaPressure  MetaPressure  `yaml:"meta_pressure" json:"meta_pressure"`
	ShipCondition ShipCondition `yaml:"ship_condition" json:"ship_condition"`
	Chase         Chase         `yaml:"chase" json:"chase"`
	BountyHunters BountyHunters `yaml:"bounty_hunters" json:"bounty_hunters"`
	WarFronts     WarFronts     `yaml:"war_fronts" json:"war_fronts"`

	idx index
}

type index struct {
	goods      map[string]int
	islands    map[string]int
	factions   map[string]int
	upgrades   map[string]int
	titles     map[string]int
	contracts  map[string]int
	portStates map[string]int
	drift      map[string]int
	classes    map[string]int
	officers   map[string]int
	coves      map[string]int
	questlines map[string]int
}

type Good struct {
	ID        string  `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	BasePrice float64 `yaml:"base_price" json:"base_price"`
	Category  string  `yaml:"category" json:"category"`
	Weight    int     `yaml:"weight" json:"weight"`
}

// Good categories.
const (
	CategoryCommodity  = "commodity"
	CategoryLuxury     = "luxury"
	CategoryContraband = "contraband"
)

type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Z float64 `yaml:"z" json:"z"`
}

type Island struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Position Vec2     `yaml:"position" json:"position"`
	Faction  string   `yaml:"faction" json:"faction"`
	Markets  []Market `yaml:"markets" json:"markets"`
}

type Market struct {
	Good         string `yaml:"good" json:"good"`
	Preference   string `yaml:"preference" json:"preference"`
	TargetSupply int    `yaml:"target_supply" json:"target_supply"`
	TargetDemand int    `yaml:"target_demand" json:"target_demand"`
}

// Market preferences.
const (
	PrefExports = "exports"
	PrefImports = "imports"
	PrefNeutral = "neutral"
)

// Faction ids. Neutral is an island allegiance only; players pick one of the other three.
const (
	FactionEnglish = "english"
	FactionEITC    = "eitc"
	FactionPirates = "pirates"
	FactionNeutral = "neutral"
)

// PlayerFactions lists the factions tracked by reputation and influence, in fixed order.
var PlayerFactions = []string{FactionEnglish, FactionEITC, FactionPirates}

type Faction struct {
	ID               string         `yaml:"id" json:"id"`
	Name             string         `yaml:"name" json:"name"`
	TaxRate          float64        `yaml:"tax_rate" json:"tax_rate"`
	StartingRep      map[string]int `yaml:"starting_rep" json:"starting_rep"`
	PirateChanceMult float64        `yaml:"pirate_chance_mult" json:"pirate_chance_mult"`
	TributeMult      float64        `yaml:"tribute_mult" json:"tribute_mult"`
	CargoBonus       float64        `yaml:"cargo_bonus" json:"cargo_bonus"`
	PriceBonus       float64        `yaml:"price_bonus" json:"price_bonus"`
	ContrabandBonus  float64        `yaml:"contraband_bonus" json:"contraband_bonus"`
	SpeedBonus       float64        `yaml:"speed_bonus" json:"speed_bonus"`
}

type Upgrade struct {
	ID      string         `yaml:"id" json:"id"`
	Name    string         `yaml:"name" json:"name"`
	Cost    int            `yaml:"cost" json:"cost"`
	Effects UpgradeEffects `yaml:"effects" json:"effects"`
}

type UpgradeEffects struct {
	WindBonus             float64 `yaml:"wind_bonus,omitempty" json:"wind_bonus,omitempty"`
	SupplyCostExtra       float64 `yaml:"supply_cost_extra,omitempty" json:"supply_cost_extra,omitempty"`
	CargoProtection       float64 `yaml:"cargo_protection,omitempty" json:"cargo_protection,omitempty"`
	SpeedPenalty          float64 `yaml:"speed_penalty,omitempty" json:"speed_penalty,omitempty"`
	CapacityPenalty       int     `yaml:"capacity_penalty,omitempty" json:"capacity_penalty,omitempty"`
	LuxuryCapBonus        int     `yaml:"luxury_cap_bonus,omitempty" json:"luxury_cap_bonus,omitempty"`
	CommodityCapPenalty   int     `yaml:"commodity_cap_penalty,omitempty" json:"commodity_cap_penalty,omitempty"`
	InspectionReduction   float64 `yaml:"inspection_reduction,omitempty" json:"inspection_reduction,omitempty"`
	ContrabandProfitBonus float64 `yaml:"contraband_profit_bonus,omitempty" json:"contraband_profit_bonus,omitempty"`
	TributeReduction      float64 `yaml:"tribute_reduction,omitempty" json:"tribute_reduction,omitempty"`
	GoldProtection        float64 `yaml:"gold_protection,omitempty" json:"gold_protection,omitempty"`
}

type TitleTrack struct {
	ID         string       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	Thresholds []float64    `yaml:"thresholds" json:"thresholds"`
	TierNames  []string     `yaml:"tier_names" json:"tier_names"`
	PerTier    TitleEffects `yaml:"per_tier" json:"per_tier"`
}

type TitleEffects struct {
	RepGainMult         float64 `yaml:"rep_gain_mult,omitempty" json:"rep_gain_mult,omitempty"`
	RepLossReduction    float64 `yaml:"rep_loss_reduction,omitempty" json:"rep_loss_reduction,omitempty"`
	TributeReduction    float64 `yaml:"tribute_reduction,omitempty" json:"tribute_reduction,omitempty"`
	InspectionReduction float64 `yaml:"inspection_reduction,omitempty" json:"inspection_reduction,omitempty"`
}

// Title track ids.
const (
	TrackMerchant = "merchant"
	TrackSmuggler = "smuggler"
	TrackVoyager  = "voyager"
)

type ContractType struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	BaseReward float64 `yaml:"base_reward" json:"base_reward"`
	RepReward  int     `yaml:"rep_reward" json:"rep_reward"`
	RiskMult   float64 `yaml:"risk_mult" json:"risk_mult"`
	HeatGain   int     `yaml:"heat_gain,omitempty" json:"heat_gain,omitempty"`
	DepositPct float64 `yaml:"deposit_pct,omitempty" json:"deposit_pct,omitempty"`
	SupplyCost int     `yaml:"supply_cost,omitempty" json:"supply_cost,omitempty"`
}

// Contract type ids.
const (
	ContractDelivery  = "delivery"
	ContractSmuggling = "smuggling"
	ContractCourier   = "courier"
	ContractSupply    = "supply"
	ContractFaction   = "faction"
)

type LocalEvent struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Duration   int      `yaml:"duration" json:"duration"`
	Affects    []string `yaml:"affects" json:"affects"`
	Multiplier float64  `yaml:"multiplier" json:"multiplier"`
}

type RegionalEvent struct {
	ID           string             `yaml:"id" json:"id"`
	Name         string             `yaml:"name" json:"name"`
	Duration     int                `yaml:"duration" json:"duration"`
	CategoryMult map[string]float64 `yaml:"category_mult" json:"category_mult"`
}

type SeasonalEvent struct {
	ID       string          `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Season   string          `yaml:"season" json:"season"`
	Duration int             `yaml:"duration" json:"duration"`
	Effects  SeasonalEffects `yaml:"effects" json:"effects"`
}

// SeasonalEffects holds the optional multipliers a seasonal event applies.
// Zero means "not set" for every field.
type SeasonalEffects struct {
	Commodity    float64  `yaml:"commodity,omitempty" json:"commodity,omitempty"`
	Luxury       float64  `yaml:"luxury,omitempty" json:"luxury,omitempty"`
	Contraband   float64  `yaml:"contraband,omitempty" json:"contraband,omitempty"`
	InspectMult  float64  `yaml:"inspect_mult,omitempty" json:"inspect_mult,omitempty"`
	ConvoySpawn  float64  `yaml:"convoy_spawn,omitempty" json:"convoy_spawn,omitempty"`
	PirateSpawn  float64  `yaml:"pirate_spawn,omitempty" json:"pirate_spawn,omitempty"`
	PiratesMult  float64  `yaml:"pirates_mult,omitempty" json:"pirates_mult,omitempty"`
	RaceBonus    float64  `yaml:"race_bonus,omitempty" json:"race_bonus,omitempty"`
	Quarantine   bool     `yaml:"quarantine,omitempty" json:"quarantine,omitempty"`
	MedicineMult float64  `yaml:"medicine_mult,omitempty" json:"medicine_mult,omitempty"`
	Destination  string   `yaml:"destination,omitempty" json:"destination,omitempty"`
	StormMult    float64  `yaml:"storm_mult,omitempty" json:"storm_mult,omitempty"`
	StormDamage  float64  `yaml:"storm_damage,omitempty" json:"storm_damage,omitempty"`
	CrewEvents   float64  `yaml:"crew_events,omitempty" json:"crew_events,omitempty"`
	SupplyCost   float64  `yaml:"supply_cost,omitempty" json:"supply_cost,omitempty"`
	TariffMult   *float64 `yaml:"tariff_mult,omitempty" json:"tariff_mult,omitempty"`
}

// Category returns the price multiplier for a good category, or 0 if unset.
func (e SeasonalEffects) Category(cat string) float64 {
	switch cat {
	case CategoryCommodity:
		return e.Commodity
	case CategoryLuxury:
		return e.Luxury
	case CategoryContraband:
		return e.Contraband
	}
	return 0
}

type Encounters struct {
	Storm             float64 `yaml:"storm" json:"storm"`
	AdriftMerchant    float64 `yaml:"adrift_merchant" json:"adrift_merchant"`
	WreckSalvage      float64 `yaml:"wreck_salvage" json:"wreck_salvage"`
	Inspection        float64 `yaml:"inspection" json:"inspection"`
	DesperateMerchant float64 `yaml:"desperate_merchant" json:"desperate_merchant"`
	BlockadeRunner    float64 `yaml:"blockade_runner" json:"blockade_runner"`
}

type PortState struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	InspectMult   float64  `yaml:"inspect_mult" json:"inspect_mult"`
	TariffMult    float64  `yaml:"tariff_mult" json:"tariff_mult"`
	PriceMult     float64  `yaml:"price_mult" json:"price_mult"`
	SupplyMult    float64  `yaml:"supply_mult" json:"supply_mult"`
	SmugglerBonus float64  `yaml:"smuggler_bonus,omitempty" json:"smuggler_bonus,omitempty"`
	PirateRisk    float64  `yaml:"pirate_risk,omitempty" json:"pirate_risk,omitempty"`
	FoodCategory  string   `yaml:"food_category,omitempty" json:"food_category,omitempty"`
	FoodMult      float64  `yaml:"food_mult,omitempty" json:"food_mult,omitempty"`
	ReliefRep     int      `yaml:"relief_rep,omitempty" json:"relief_rep,omitempty"`
	MaterialBonus float64  `yaml:"material_bonus,omitempty" json:"material_bonus,omitempty"`
	Materials     []string `yaml:"materials,omitempty" json:"materials,omitempty"`
}

// Port state ids.
const (
	PortProsperous = "prosperous"
	PortStruggling = "struggling"
	PortBlockaded  = "blockaded"
	PortLawless    = "lawless"
	PortStarving   = "starving"
	PortFlooded    = "flooded"
)

type Season struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	DayStart       int     `yaml:"day_start" json:"day_start"`
	DayEnd         int     `yaml:"day_end" json:"day_end"`
	StormMult      float64 `yaml:"storm_mult" json:"storm_mult"`
	WindBias       int     `yaml:"wind_bias" json:"wind_bias"`
	PriceMult      float64 `yaml:"price_mult" json:"price_mult"`
	PiratesMult    float64 `yaml:"pirates_mult" json:"pirates_mult"`
	SupplyCostMult float64 `yaml:"supply_cost_mult,omitempty" json:"supply_cost_mult,omitempty"`
	SpeedMult      float64 `yaml:"speed_mult,omitempty" json:"speed_mult,omitempty"`
}

// Season ids.
const (
	SeasonCalmWinds  = "calmWinds"
	SeasonTradeWinds = "tradeWinds"
	SeasonMonsoon    = "monsoon"
	SeasonDoldrums   = "doldrums"
)

type DriftKind struct {
	ID            string  `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	Speed         float64 `yaml:"speed" json:"speed"`
	Lifetime      int     `yaml:"lifetime" json:"lifetime"`
	EncounterType string  `yaml:"encounter_type" json:"encounter_type"`
	// EffectRadius is the danger/inspect/interact radius; 0 falls back to the default.
	EffectRadius float64 `yaml:"effect_radius,omitempty" json:"effect_radius,omitempty"`
}

// Drift entity kinds.
const (
	DriftStormFront     = "stormFront"
	DriftPirateFleet    = "pirateFleet"
	DriftNavyConvoy     = "navyConvoy"
	DriftFloatingMarket = "floatingMarket"
	DriftMerchantFleet  = "merchantFleet"
)

type RumorTemplate struct {
	Template string  `yaml:"template" json:"template"`
	Type     string  `yaml:"type" json:"type"`
	Accuracy float64 `yaml:"accuracy" json:"accuracy"`
}

type ShipClass struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	BaseSpeed       float64 `yaml:"base_speed" json:"base_speed"`
	CargoCapacity   int     `yaml:"cargo_capacity" json:"cargo_capacity"`
	HullMax         int     `yaml:"hull_max" json:"hull_max"`
	RiggingMax      int     `yaml:"rigging_max" json:"rigging_max"`
	RepairCostMult  float64 `yaml:"repair_cost_mult" json:"repair_cost_mult"`
	UpkeepMult      float64 `yaml:"upkeep_mult" json:"upkeep_mult"`
	EscapeBonus     float64 `yaml:"escape_bonus" json:"escape_bonus"`
	ChaseSpeedBonus float64 `yaml:"chase_speed_bonus" json:"chase_speed_bonus"`
	Cost            int     `yaml:"cost" json:"cost"`
}

type Officer struct {
	ID       string         `yaml:"id" json:"id"`
	Name     string         `yaml:"name" json:"name"`
	BaseWage int            `yaml:"base_wage" json:"base_wage"`
	HireCost int            `yaml:"hire_cost" json:"hire_cost"`
	Effects  OfficerEffects `yaml:"effects" json:"effects"`
}

type OfficerEffects struct {
	UpkeepMult          float64 `yaml:"upkeep_mult,omitempty" json:"upkeep_mult,omitempty"`
	CargoProtection     float64 `yaml:"cargo_protection,omitempty" json:"cargo_protection,omitempty"`
	SpeedBonus          float64 `yaml:"speed_bonus,omitempty" json:"speed_bonus,omitempty"`
	CombatBonus         float64 `yaml:"combat_bonus,omitempty" json:"combat_bonus,omitempty"`
	LootBonus           float64 `yaml:"loot_bonus,omitempty" json:"loot_bonus,omitempty"`
	MaintenanceMult     float64 `yaml:"maintenance_mult,omitempty" json:"maintenance_mult,omitempty"`
	InspectionReduction float64 `yaml:"inspection_reduction,omitempty" json:"inspection_reduction,omitempty"`
	FenceBonus          float64 `yaml:"fence_bonus,omitempty" json:"fence_bonus,omitempty"`
	HeatMult            float64 `yaml:"heat_mult,omitempty" json:"heat_mult,omitempty"`
	MoraleRecovery      float64 `yaml:"morale_recovery,omitempty" json:"morale_recovery,omitempty"`
	MaxMoraleBonus      int     `yaml:"max_morale_bonus,omitempty" json:"max_morale_bonus,omitempty"`
	SupplyCostExtra     float64 `yaml:"supply_cost_extra,omitempty" json:"supply_cost_extra,omitempty"`
	RepairDiscount      float64 `yaml:"repair_discount,omitempty" json:"repair_discount,omitempty"`
	RiggingWearMult     float64 `yaml:"rigging_wear_mult,omitempty" json:"rigging_wear_mult,omitempty"`
	MoralePenalty       float64 `yaml:"morale_penalty,omitempty" json:"morale_penalty,omitempty"`
}

type CrewNames struct {
	First []string `yaml:"first" json:"first"`
	Last  []string `yaml:"last" json:"last"`
}

type Cove struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Type     string   `yaml:"type" json:"type"`
	Position Vec2     `yaml:"position" json:"position"`
	Services []string `yaml:"services" json:"services"`
	Hint     string   `yaml:"hint" json:"hint"`
}

type Questline struct {
	ID       string          `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Faction  string          `yaml:"faction" json:"faction"`
	Tier     int             `yaml:"tier" json:"tier"`
	Requires int             `yaml:"requires,omitempty" json:"requires,omitempty"`
	Steps    []QuestStep     `yaml:"steps" json:"steps"`
	Rewards  QuestlineReward `yaml:"rewards" json:"rewards"`
	Deadline int             `yaml:"deadline" json:"deadline"`
}

// Quest step types.
const (
	StepDeliverCount = "deliver_count"
	StepCollect      = "collect"
	StepDeliver      = "deliver"
	StepVisit        = "visit"
)

type QuestStep struct {
	Type   string         `yaml:"type" json:"type"`
	Goods  map[string]int `yaml:"goods,omitempty" json:"goods,omitempty"`
	To     string         `yaml:"to,omitempty" json:"to,omitempty"`
	At     string         `yaml:"at,omitempty" json:"at,omitempty"`
	Count  int            `yaml:"count,omitempty" json:"count,omitempty"`
	Reward int            `yaml:"reward,omitempty" json:"reward,omitempty"`
	Desc   string         `yaml:"desc" json:"desc"`
}

type QuestlineReward struct {
	Gold       int            `yaml:"gold" json:"gold"`
	Reputation map[string]int `yaml:"reputation,omitempty" json:"reputation,omitempty"`
	Title      string         `yaml:"title,omitempty" json:"title,omitempty"`
	Pardon     bool           `yaml:"pardon,omitempty" json:"pardon,omitempty"`
	Unlocks    string         `yaml:"unlocks,omitempty" json:"unlocks,omitempty"`
}

type Wind struct {
	Directions []WindDir      `yaml:"directions" json:"directions"`
	Strengths  []WindStrength `yaml:"strengths" json:"strengths"`
}

type WindDir struct {
	Name string  `yaml:"name" json:"name"`
	X    float64 `yaml:"x" json:"x"`
	Z    float64 `yaml:"z" json:"z"`
}

type WindStrength struct {
	Name string  `yaml:"name" json:"name"`
	Mult float64 `yaml:"mult" json:"mult"`
}

type Settings struct {
	StartingGold           int     `yaml:"starting_gold" json:"starting_gold"`
	StartingSupplies       int     `yaml:"starting_supplies" json:"starting_supplies"`
	BaseShipSpeed          float64 `yaml:"base_ship_speed" json:"base_ship_speed"`
	BaseSupplyRate         float64 `yaml:"base_supply_rate" json:"base_supply_rate"`
	DockDistance           float64 `yaml:"dock_distance" json:"dock_distance"`
	PirateEncounterChance  float64 `yaml:"pirate_encounter_chance" json:"pirate_encounter_chance"`
	WindChangeDays         int     `yaml:"wind_change_days" json:"wind_change_days"`
	HeatGainContraband     int     `yaml:"heat_gain_contraband" json:"heat_gain_contraband"`
	HeatGainDockEnglishEIT int     `yaml:"heat_gain_dock_english_eitc" json:"heat_gain_dock_english_eitc"`
	HighMarginThreshold    float64 `yaml:"high_margin_threshold" json:"high_margin_threshold"`
	MaxActiveContracts     int     `yaml:"max_active_contracts" json:"max_active_contracts"`
	ContractBoardSize      int     `yaml:"contract_board_size" json:"contract_board_size"`
	ContractRefreshDays    int     `yaml:"contract_refresh_days" json:"contract_refresh_days"`
	SeasonCycleDays        int     `yaml:"season_cycle_days" json:"season_cycle_days"`
	CrackdownDecayPerDay   int     `yaml:"crackdown_decay_per_day" json:"crackdown_decay_per_day"`
	CrackdownMaxLevel      int     `yaml:"crackdown_max_level" json:"crackdown_max_level"`
	MaxDriftEntities       int     `yaml:"max_drift_entities" json:"max_drift_entities"`
	DriftSpawnChance       float64 `yaml:"drift_spawn_chance" json:"drift_spawn_chance"`
	RumorRefreshDays       int     `yaml:"rumor_refresh_days" json:"rumor_refresh_days"`
	MaxRumorsPerPort       int     `yaml:"max_rumors_per_port" json:"max_rumors_per_port"`
	PortStateChangeChance  float64 `yaml:"port_state_change_chance" json:"port_state_change_chance"`
	ReliefRunThreshold     int     `yaml:"relief_run_threshold" json:"relief_run_threshold"`
	MaxOfficers            int     `yaml:"max_officers" json:"max_officers"`
	ResupplyCost           int     `yaml:"resupply_cost" json:"resupply_cost"`
	ResupplyBelow          int     `yaml:"resupply_below" json:"resupply_below"`
	ResupplyCap            int     `yaml:"resupply_cap" json:"resupply_cap"`
	SupplyMax              int     `yaml:"supply_max" json:"supply_max"`
	IslandSpawnOffset      float64 `yaml:"island_spawn_offset" json:"island_spawn_offset"`
}

type Balance struct {
	PowerScore        PowerScore        `yaml:"power_score" json:"power_score"`
	PowerThresholds   PowerThresholds   `yaml:"power_thresholds" json:"power_thresholds"`
	Upkeep            Upkeep            `yaml:"upkeep" json:"upkeep"`
	DemandSaturation  DemandSaturation  `yaml:"demand_saturation" json:"demand_saturation"`
	BulkTrade         BulkTrade         `yaml:"bulk_trade" json:"bulk_trade"`
	AntiSpam          AntiSpam          `yaml:"anti_spam" json:"anti_spam"`
	PortVisitCooldown PortVisitCooldown `yaml:"port_visit_cooldown" json:"port_visit_cooldown"`
	TradeFatigue      TradeFatigue      `yaml:"trade_fatigue" json:"trade_fatigue"`
	Smuggling         Smuggling         `yaml:"smuggling" json:"smuggling"`
	Bounty            Bounty            `yaml:"bounty" json:"bounty"`
	Encounters        EncounterScaling  `yaml:"encounters" json:"encounters"`
	Progression       Progression       `yaml:"progression" json:"progression"`
	Difficulty        Difficulty        `yaml:"difficulty" json:"difficulty"`
}

type PowerScore struct {
	GoldWeight      float64 `yaml:"gold_weight" json:"gold_weight"`
	CargoWeight     float64 `yaml:"cargo_weight" json:"cargo_weight"`
	UpgradeWeight   float64 `yaml:"upgrade_weight" json:"upgrade_weight"`
	TitleWeight     float64 `yaml:"title_weight" json:"title_weight"`
	DaysWeight      float64 `yaml:"days_weight" json:"days_weight"`
	ContractsWeight float64 `yaml:"contracts_weight" json:"contracts_weight"`
}

type PowerThresholds struct {
	Mid     float64 `yaml:"mid" json:"mid"`
	Late    float64 `yaml:"late" json:"late"`
	Endgame float64 `yaml:"endgame" json:"endgame"`
}

type Upkeep struct {
	Enabled             bool `yaml:"enabled" json:"enabled"`
	CrewWagesPerDay     int  `yaml:"crew_wages_per_day" json:"crew_wages_per_day"`
	CrewWagesPerUpgrade int  `yaml:"crew_wages_per_upgrade" json:"crew_wages_per_upgrade"`
	MaintenancePerDay   int  `yaml:"maintenance_per_day" json:"maintenance_per_day"`
	DockingFee          int  `yaml:"docking_fee" json:"docking_fee"`
	DockingFeeHostile   int  `yaml:"docking_fee_hostile" json:"docking_fee_hostile"`
}

type DemandSaturation struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	DecayRate      float64 `yaml:"decay_rate" json:"decay_rate"`
	Threshold      int     `yaml:"threshold" json:"threshold"`
	RecoveryPerDay int     `yaml:"recovery_per_day" json:"recovery_per_day"`
	MaxPenalty     float64 `yaml:"max_penalty" json:"max_penalty"`
}

type BulkTrade struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	Threshold      int     `yaml:"threshold" json:"threshold"`
	PenaltyPerUnit float64 `yaml:"penalty_per_unit" json:"penalty_per_unit"`
	MaxPenalty     float64 `yaml:"max_penalty" json:"max_penalty"`
}

// AntiSpam bounds the combined fatigue, visit and bulk penalties.
type AntiSpam struct {
	SellFloor  float64 `yaml:"sell_floor" json:"sell_floor"`
	BuyCeiling float64 `yaml:"buy_ceiling" json:"buy_ceiling"`
	BuyWeight  float64 `yaml:"buy_weight" json:"buy_weight"`
}

type PortVisitCooldown struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	MinDaysBetween     int     `yaml:"min_days_between" json:"min_days_between"`
	PenaltyPerEarlyDay float64 `yaml:"penalty_per_early_day" json:"penalty_per_early_day"`
	MaxPenalty         float64 `yaml:"max_penalty" json:"max_penalty"`
}

type TradeFatigue struct {
	Enabled              bool    `yaml:"enabled" json:"enabled"`
	TransactionsPerVisit int     `yaml:"transactions_per_visit" json:"transactions_per_visit"`
	PenaltyPerTrade      float64 `yaml:"penalty_per_trade" json:"penalty_per_trade"`
	MaxPenalty           float64 `yaml:"max_penalty" json:"max_penalty"`
}

type Smuggling struct {
	HeatGainBase        int     `yaml:"heat_gain_base" json:"heat_gain_base"`
	HeatGainPerUnit     int     `yaml:"heat_gain_per_unit" json:"heat_gain_per_unit"`
	HeatDecayBase       float64 `yaml:"heat_decay_base" json:"heat_decay_base"`
	HeatDecayAtSea      float64 `yaml:"heat_decay_at_sea" json:"heat_decay_at_sea"`
	HeatDecayFriendly   float64 `yaml:"heat_decay_friendly" json:"heat_decay_friendly"`
	FenceLimit          int     `yaml:"fence_limit" json:"fence_limit"`
	FenceLimitDecayDays int     `yaml:"fence_limit_decay_days" json:"fence_limit_decay_days"`
}

type Bounty struct {
	Enabled            bool               `yaml:"enabled" json:"enabled"`
	BaseGainPerCrime   int                `yaml:"base_gain_per_crime" json:"base_gain_per_crime"`
	ContrabandBounty   int                `yaml:"contraband_bounty" json:"contraband_bounty"`
	FleeingBounty      int                `yaml:"fleeing_bounty" json:"fleeing_bounty"`
	DecayPerDay        int                `yaml:"decay_per_day" json:"decay_per_day"`
	DecayDocked        int                `yaml:"decay_docked" json:"decay_docked"`
	Thresholds         BountyThresholds   `yaml:"thresholds" json:"thresholds"`
	TributeBountyMult  float64            `yaml:"tribute_bounty_mult" json:"tribute_bounty_mult"`
	InspectMult        map[string]float64 `yaml:"inspect_mult" json:"inspect_mult"`
	CompartmentPenalty map[string]float64 `yaml:"compartment_penalty" json:"compartment_penalty"`
	EscapePenalty      map[string]float64 `yaml:"escape_penalty" json:"escape_penalty"`
	FleeChance         map[string]float64 `yaml:"flee_chance" json:"flee_chance"`
}

type BountyThresholds struct {
	Wanted   int `yaml:"wanted" json:"wanted"`
	Hunted   int `yaml:"hunted" json:"hunted"`
	Infamous int `yaml:"infamous" json:"infamous"`
}

type EncounterScaling struct {
	PirateStrengthBase    float64 `yaml:"pirate_strength_base" json:"pirate_strength_base"`
	PirateStrengthPower   float64 `yaml:"pirate_strength_power" json:"pirate_strength_power"`
	PirateMinTribute      int     `yaml:"pirate_min_tribute" json:"pirate_min_tribute"`
	PirateFightWinBase    float64 `yaml:"pirate_fight_win_base" json:"pirate_fight_win_base"`
	PirateFightWinPenalty float64 `yaml:"pirate_fight_win_penalty" json:"pirate_fight_win_penalty"`
	PirateLootBase        int     `yaml:"pirate_loot_base" json:"pirate_loot_base"`
	PirateLootPowerMult   float64 `yaml:"pirate_loot_power_mult" json:"pirate_loot_power_mult"`
	WreckPositiveChance   float64 `yaml:"wreck_positive_chance" json:"wreck_positive_chance"`
	MerchantDiscountMax   float64 `yaml:"merchant_discount_max" json:"merchant_discount_max"`
	MerchantDiscountMin   float64 `yaml:"merchant_discount_min" json:"merchant_discount_min"`
	BlockadeChance        float64 `yaml:"blockade_chance" json:"blockade_chance"`
	ConvoyProtection      float64 `yaml:"convoy_protection" json:"convoy_protection"`
}

type Progression struct {
	ContractRewardBase      float64 `yaml:"contract_reward_base" json:"contract_reward_base"`
	ContractRewardPowerMult float64 `yaml:"contract_reward_power_mult" json:"contract_reward_power_mult"`
	ContractRewardMin       float64 `yaml:"contract_reward_min" json:"contract_reward_min"`
	UpgradeCostPowerMult    float64 `yaml:"upgrade_cost_power_mult" json:"upgrade_cost_power_mult"`
	UpgradeCostMax          float64 `yaml:"upgrade_cost_max" json:"upgrade_cost_max"`
}

type Difficulty struct {
	MaxScaling float64 `yaml:"max_scaling" json:"max_scaling"`
}

type MetaPressure struct {
	Enabled       bool              `yaml:"enabled" json:"enabled"`
	WindowSize    int               `yaml:"window_size" json:"window_size"`
	DecayPerDay   float64           `yaml:"decay_per_day" json:"decay_per_day"`
	Thresholds    MetaCategories    `yaml:"thresholds" json:"thresholds"`
	Caps          MetaCaps          `yaml:"caps" json:"caps"`
	Milestones    []float64         `yaml:"milestones" json:"milestones"`
	PeakAt        float64           `yaml:"peak_at" json:"peak_at"`
	PortWeight    float64           `yaml:"port_weight" json:"port_weight"`
	FactionWeight float64           `yaml:"faction_weight" json:"faction_weight"`
	Flavor        map[string]Flavor `yaml:"flavor" json:"flavor"`
}

type MetaCategories struct {
	Route   float64 `yaml:"route" json:"route"`
	Good    float64 `yaml:"good" json:"good"`
	Port    float64 `yaml:"port" json:"port"`
	Faction float64 `yaml:"faction" json:"faction"`
}

type MetaCaps struct {
	PirateChance     float64 `yaml:"pirate_chance" json:"pirate_chance"`
	StormChance      float64 `yaml:"storm_chance" json:"storm_chance"`
	PriceReduction   float64 `yaml:"price_reduction" json:"price_reduction"`
	SaturationMult   float64 `yaml:"saturation_mult" json:"saturation_mult"`
	DockFeeIncrease  float64 `yaml:"dock_fee_increase" json:"dock_fee_increase"`
	InspectionChance float64 `yaml:"inspection_chance" json:"inspection_chance"`
}

type Flavor struct {
	Rising []string `yaml:"rising" json:"rising"`
	Peak   []string `yaml:"peak" json:"peak"`
}

type ShipCondition struct {
	HullWearBase         float64 `yaml:"hull_wear_base" json:"hull_wear_base"`
	HullWearStorm        float64 `yaml:"hull_wear_storm" json:"hull_wear_storm"`
	HullWearOverload     float64 `yaml:"hull_wear_overload" json:"hull_wear_overload"`
	RiggingWearBase      float64 `yaml:"rigging_wear_base" json:"rigging_wear_base"`
	RiggingWearStorm     float64 `yaml:"rigging_wear_storm" json:"rigging_wear_storm"`
	RiggingWearHighWind  float64 `yaml:"rigging_wear_high_wind" json:"rigging_wear_high_wind"`
	MoraleWearBase       float64 `yaml:"morale_wear_base" json:"morale_wear_base"`
	MoraleDoldrumsExtra  float64 `yaml:"morale_doldrums_extra" json:"morale_doldrums_extra"`
	MoraleLowSupplies    float64 `yaml:"morale_low_supplies_extra" json:"morale_low_supplies_extra"`
	CriticalThreshold    float64 `yaml:"critical_threshold" json:"critical_threshold"`
	WarningThreshold     float64 `yaml:"warning_threshold" json:"warning_threshold"`
	LowHullSinkChance    float64 `yaml:"low_hull_sink_chance" json:"low_hull_sink_chance"`
	LowHullRepairPenalty float64 `yaml:"low_hull_repair_penalty" json:"low_hull_repair_penalty"`
	LowRiggingSpeed      float64 `yaml:"low_rigging_speed_penalty" json:"low_rigging_speed_penalty"`
	LowRiggingEscape     float64 `yaml:"low_rigging_escape_penalty" json:"low_rigging_escape_penalty"`
	LowMoraleEncounter   float64 `yaml:"low_morale_encounter_bonus" json:"low_morale_encounter_bonus"`
	MutinyChance         float64 `yaml:"low_morale_mutiny_chance" json:"low_morale_mutiny_chance"`
	DockRepairCostHull   float64 `yaml:"dock_repair_cost_hull" json:"dock_repair_cost_hull"`
	DockRepairCostRig    float64 `yaml:"dock_repair_cost_rigging" json:"dock_repair_cost_rigging"`
	DockRestCost         float64 `yaml:"dock_rest_cost" json:"dock_rest_cost"`
	SeaRepairSupplies    int     `yaml:"sea_repair_cost_supplies" json:"sea_repair_cost_supplies"`
	DockRepairRate       float64 `yaml:"dock_repair_rate" json:"dock_repair_rate"`
	SeaRepairRate        float64 `yaml:"sea_repair_rate" json:"sea_repair_rate"`
	DockMoraleRecovery   float64 `yaml:"dock_morale_recovery" json:"dock_morale_recovery"`
	MaxMorale            float64 `yaml:"max_morale" json:"max_morale"`
}

type Chase struct {
	BaseDurationMs     int      `yaml:"base_duration_ms" json:"base_duration_ms"`
	MinDurationMs      int      `yaml:"min_duration_ms" json:"min_duration_ms"`
	MaxDurationMs      int      `yaml:"max_duration_ms" json:"max_duration_ms"`
	BaseEscapeChance   float64  `yaml:"base_escape_chance" json:"base_escape_chance"`
	WindSpeedFactor    float64  `yaml:"wind_speed_factor" json:"wind_speed_factor"`
	CargoWeightPenalty float64  `yaml:"cargo_weight_penalty" json:"cargo_weight_penalty"`
	RiggingFactor      float64  `yaml:"rigging_factor" json:"rigging_factor"`
	HazardChance       float64  `yaml:"hazard_chance" json:"hazard_chance"`
	HazardTypes        []string `yaml:"hazard_types" json:"hazard_types"`
	JukeCooldownMs     int      `yaml:"juke_cooldown_ms" json:"juke_cooldown_ms"`
	JukeBonus          float64  `yaml:"juke_bonus" json:"juke_bonus"`
	MinEscape          float64  `yaml:"min_escape" json:"min_escape"`
	MaxEscape          float64  `yaml:"max_escape" json:"max_escape"`
	ActionCap          float64  `yaml:"action_cap" json:"action_cap"`
}

type BountyHunters struct {
	Hunters         []Hunter              `yaml:"hunters" json:"hunters"`
	EncounterChance map[string]float64    `yaml:"encounter_chance" json:"encounter_chance"`
	PardonCosts     map[string]PardonCost `yaml:"pardon_costs" json:"pardon_costs"`
}

type Hunter struct {
	Name     string  `yaml:"name" json:"name"`
	Strength float64 `yaml:"strength" json:"strength"`
	Reward   int     `yaml:"reward" json:"reward"`
}

type PardonCost struct {
	Base      float64 `yaml:"base" json:"base"`
	PerBounty float64 `yaml:"per_bounty" json:"per_bounty"`
}

type WarFronts struct {
	InfluencePerTrade   float64 `yaml:"influence_per_trade" json:"influence_per_trade"`
	InfluencePerQuest   float64 `yaml:"influence_per_quest" json:"influence_per_quest"`
	InfluencePerSmuggle float64 `yaml:"influence_per_smuggle" json:"influence_per_smuggle"`
	StabilityRecovery   float64 `yaml:"stability_recovery_per_day" json:"stability_recovery_per_day"`
	HomeDrift           float64 `yaml:"home_drift_per_day" json:"home_drift_per_day"`
	BlockadeDuration    int     `yaml:"blockade_duration" json:"blockade_duration"`
	BlockadeSpawnChance float64 `yaml:"blockade_spawn_chance" json:"blockade_spawn_chance"`
	WarZoneDuration     int     `yaml:"war_zone_duration" json:"war_zone_duration"`
	WarZoneSpawnChance  float64 `yaml:"war_zone_spawn_chance" json:"war_zone_spawn_chance"`
	WarVictoryInfluence float64 `yaml:"war_victory_influence" json:"war_victory_influence"`
	ControlThreshold    float64 `yaml:"control_threshold" json:"control_threshold"`
	UnstableBelow       float64 `yaml:"unstable_below" json:"unstable_below"`
}

// Defaults returns the embedded default table. A broken embedded file is a build defect.
func Defaults() Tuning {
	t, err := parse(defaultYAML, nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads overrides from path on top of the embedded defaults.
// An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	if strings.TrimSpace(path) == "" {
		return parse(defaultYAML, nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	return parse(defaultYAML, raw)
}

func parse(base, override []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(base, &t); err != nil {
		return t, fmt.Errorf("havenvoy.yaml: %w", err)
	}
	if len(bytes.TrimSpace(override)) > 0 {
		if err := yaml.Unmarshal(override, &t); err != nil {
			return t, fmt.Errorf("havenvoy.yaml: %w", err)
		}
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("havenvoy.yaml: %w", err)
	}
	return t, nil
}

// Normalize fills zero values with their defaults and rebuilds the lookup index.
func (t *Tuning) Normalize() {
	if t.SaveVersion <= 0 {
		t.SaveVersion = 2
	}
	for i := range t.DriftEntities {
		if t.DriftEntities[i].EffectRadius <= 0 {
			t.DriftEntities[i].EffectRadius = 30
		}
	}
	for i := range t.Seasons {
		if t.Seasons[i].SupplyCostMult <= 0 {
			t.Seasons[i].SupplyCostMult = 1
		}
		if t.Seasons[i].SpeedMult <= 0 {
			t.Seasons[i].SpeedMult = 1
		}
	}
	for i := range t.Officers {
		if t.Officers[i].HireCost <= 0 {
			t.Officers[i].HireCost = 100
		}
	}
	for i := range t.Factions {
		if t.Factions[i].PirateChanceMult <= 0 {
			t.Factions[i].PirateChanceMult = 1
		}
		if t.Factions[i].TributeMult <= 0 {
			t.Factions[i].TributeMult = 1
		}
	}
	if t.Settings.SupplyMax <= 0 {
		t.Settings.SupplyMax = t.Settings.StartingSupplies
	}
	if t.Balance.Difficulty.MaxScaling <= 0 {
		t.Balance.Difficulty.MaxScaling = 2
	}
	if t.Chase.MinEscape <= 0 {
		t.Chase.MinEscape = 0.1
	}
	if t.Chase.MaxEscape <= 0 {
		t.Chase.MaxEscape = 0.9
	}
	if t.Chase.ActionCap <= 0 {
		t.Chase.ActionCap = 0.95
	}

	t.idx = index{
		goods:      make(map[string]int, len(t.Goods)),
		islands:    make(map[string]int, len(t.Islands)),
		factions:   make(map[string]int, len(t.Factions)),
		upgrades:   make(map[string]int, len(t.Upgrades)),
		titles:     make(map[string]int, len(t.Titles)),
		contracts:  make(map[string]int, len(t.ContractTypes)),
		portStates: make(map[string]int, len(t.PortStates)),
		drift:      make(map[string]int, len(t.DriftEntities)),
		classes:    make(map[string]int, len(t.ShipClasses)),
		officers:   make(map[string]int, len(t.Officers)),
		coves:      make(map[string]int, len(t.HiddenCoves)),
		questlines: make(map[string]int, len(t.Questlines)),
	}
	for i, v := range t.Goods {
		t.idx.goods[v.ID] = i
	}
	for i, v := range t.Islands {
		t.idx.islands[v.ID] = i
	}
	for i, v := range t.Factions {
		t.idx.factions[v.ID] = i
	}
	for i, v := range t.Upgrades {
		t.idx.upgrades[v.ID] = i
	}
	for i, v := range t.Titles {
		t.idx.titles[v.ID] = i
	}
	for i, v := range t.ContractTypes {
		t.idx.contracts[v.ID] = i
	}
	for i, v := range t.PortStates {
		t.idx.portStates[v.ID] = i
	}
	for i, v := range t.DriftEntities {
		t.idx.drift[v.ID] = i
	}
	for i, v := range t.ShipClasses {
		t.idx.classes[v.ID] = i
	}
	for i, v := range t.Officers {
		t.idx.officers[v.ID] = i
	}
	for i, v := range t.HiddenCoves {
		t.idx.coves[v.ID] = i
	}
	for i, v := range t.Questlines {
		t.idx.questlines[v.ID] = i
	}
}

// Validate checks referential integrity of the table. Normalize must run first.
func (t *Tuning) Validate() error {
	switch {
	case len(t.Goods) == 0:
		return fmt.Errorf("goods: empty")
	case len(t.Islands) == 0:
		return fmt.Errorf("islands: empty")
	case len(t.ShipClasses) == 0:
		return fmt.Errorf("ship_classes: empty")
	case len(t.Seasons) == 0:
		return fmt.Errorf("seasons: empty")
	case len(t.PortStates) == 0:
		return fmt.Errorf("port_states: empty")
	case len(t.Wind.Directions) == 0 || len(t.Wind.Strengths) == 0:
		return fmt.Errorf("wind: directions and strengths required")
	}
	if len(t.idx.goods) != len(t.Goods) {
		return fmt.Errorf("goods: duplicate id")
	}
	if len(t.idx.islands) != len(t.Islands) {
		return fmt.Errorf("islands: duplicate id")
	}
	if len(t.idx.questlines) != len(t.Questlines) {
		return fmt.Errorf("questlines: duplicate id")
	}
	for _, g := range t.Goods {
		if g.BasePrice <= 0 || g.Weight <= 0 {
			return fmt.Errorf("good %q: base_price and weight must be positive", g.ID)
		}
		switch g.Category {
		case CategoryCommodity, CategoryLuxury, CategoryContraband:
		default:
			return fmt.Errorf("good %q: unknown category %q", g.ID, g.Category)
		}
	}
	for _, is := range t.Islands {
		if is.Faction != FactionNeutral {
			if _, ok := t.idx.factions[is.Faction]; !ok {
				return fmt.Errorf("island %q: unknown faction %q", is.ID, is.Faction)
			}
		}
		for _, m := range is.Markets {
			if _, ok := t.idx.goods[m.Good]; !ok {
				return fmt.Errorf("island %q: unknown good %q", is.ID, m.Good)
			}
			if m.TargetSupply <= 0 || m.TargetDemand <= 0 {
				return fmt.Errorf("island %q good %q: targets must be positive", is.ID, m.Good)
			}
		}
	}
	for _, f := range PlayerFactions {
		if _, ok := t.idx.factions[f]; !ok {
			return fmt.Errorf("factions: missing %q", f)
		}
	}
	for _, tr := range t.Titles {
		if len(tr.Thresholds) == 0 || len(tr.TierNames) == 0 {
			return fmt.Errorf("title %q: thresholds and tier_names required", tr.ID)
		}
		for i := 1; i < len(tr.Thresholds); i++ {
			if tr.Thresholds[i] <= tr.Thresholds[i-1] {
				return fmt.Errorf("title %q: thresholds must ascend", tr.ID)
			}
		}
	}
	for _, q := range t.Questlines {
		if len(q.Steps) == 0 {
			return fmt.Errorf("questline %q: no steps", q.ID)
		}
		for _, s := range q.Steps {
			for g := range s.Goods {
				if _, ok := t.idx.goods[g]; !ok {
					return fmt.Errorf("questline %q: unknown good %q", q.ID, g)
				}
			}
			for _, dest := range []string{s.To, s.At} {
				if dest == "" {
					continue
				}
				if _, ok := t.idx.islands[dest]; !ok {
					return fmt.Errorf("questline %q: unknown island %q", q.ID, dest)
				}
			}
		}
		if q.Rewards.Unlocks != "" {
			if _, ok := t.idx.coves[q.Rewards.Unlocks]; !ok {
				return fmt.Errorf("questline %q: unknown cove %q", q.ID, q.Rewards.Unlocks)
			}
		}
	}
	for _, e := range t.SeasonalEvents {
		if d := e.Effects.Destination; d != "" {
			if _, ok := t.idx.islands[d]; !ok {
				return fmt.Errorf("seasonal event %q: unknown destination %q", e.ID, d)
			}
		}
	}
	if _, ok := t.idx.classes[t.DefaultShipClass()]; !ok {
		return fmt.Errorf("ship_classes: missing default class %q", t.DefaultShipClass())
	}
	if t.Settings.SeasonCycleDays <= 0 {
		return fmt.Errorf("settings.season_cycle_days must be positive")
	}
	if t.MetaPressure.WindowSize <= 0 {
		return fmt.Errorf("meta_pressure.window_size must be positive")
	}
	return nil
}

// Digest is a stable content hash of the table, stamped into saves and run records.
func (t *Tuning) Digest() string {
	raw, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// DefaultShipClass is the class every new game starts with.
func (t *Tuning) DefaultShipClass() string { return "brigantine" }

func (t *Tuning) Good(id string) (Good, bool) {
	i, ok := t.idx.goods[id]
	if !ok {
		return Good{}, false
	}
	return t.Goods[i], true
}

func (t *Tuning) Island(id string) (Island, bool) {
	i, ok := t.idx.islands[id]
	if !ok {
		return Island{}, false
	}
	return t.Islands[i], true
}

func (t *Tuning) Faction(id string) (Faction, bool) {
	i, ok := t.idx.factions[id]
	if !ok {
		return Faction{}, false
	}
	return t.Factions[i], true
}

func (t *Tuning) Upgrade(id string) (Upgrade, bool) {
	i, ok := t.idx.upgrades[id]
	if !ok {
		return Upgrade{}, false
	}
	return t.Upgrades[i], true
}

func (t *Tuning) Title(id string) (TitleTrack, bool) {
	i, ok := t.idx.titles[id]
	if !ok {
		return TitleTrack{}, false
	}
	return t.Titles[i], true
}

func (t *Tuning) ContractType(id string) (ContractType, bool) {
	i, ok := t.idx.contracts[id]
	if !ok {
		return ContractType{}, false
	}
	return t.ContractTypes[i], true
}

// PortState falls back to prosperous for unknown ids.
func (t *Tuning) PortState(id string) PortState {
	if i, ok := t.idx.portStates[id]; ok {
		return t.PortStates[i]
	}
	if i, ok := t.idx.portStates[PortProsperous]; ok {
		return t.PortStates[i]
	}
	return PortState{ID: id, InspectMult: 1, TariffMult: 1, PriceMult: 1, SupplyMult: 1}
}

func (t *Tuning) DriftKind(id string) (DriftKind, bool) {
	i, ok := t.idx.drift[id]
	if !ok {
		return DriftKind{}, false
	}
	return t.DriftEntities[i], true
}

// ShipClass falls back to the default class for unknown ids.
func (t *Tuning) ShipClass(id string) ShipClass {
	if i, ok := t.idx.classes[id]; ok {
		return t.ShipClasses[i]
	}
	return t.ShipClasses[t.idx.classes[t.DefaultShipClass()]]
}

func (t *Tuning) HasShipClass(id string) bool {
	_, ok := t.idx.classes[id]
	return ok
}

func (t *Tuning) Officer(id string) (Officer, bool) {
	i, ok := t.idx.officers[id]
	if !ok {
		return Officer{}, false
	}
	return t.Officers[i], true
}

func (t *Tuning) Cove(id string) (Cove, bool) {
	i, ok := t.idx.coves[id]
	if !ok {
		return Cove{}, false
	}
	return t.HiddenCoves[i], true
}

func (t *Tuning) Questline(id string) (Questline, bool) {
	i, ok := t.idx.questlines[id]
	if !ok {
		return Questline{}, false
	}
	return t.Questlines[i], true
}

// SeasonFor maps a 1-based day within the season cycle to its season.
func (t *Tuning) SeasonFor(seasonDay int) Season {
	for _, s := range t.Seasons {
		if seasonDay >= s.DayStart && seasonDay <= s.DayEnd {
			return s
		}
	}
	return t.Seasons[0]
}

// Market returns the island's market entry for a good.
func (is Island) Market(good string) (Market, bool) {
	for _, m := range is.Markets {
		if m.Good == good {
			return m, true
		}
	}
	return Market{}, false
}

// Distance is the planar distance between two positions.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Z-o.Z)
}
