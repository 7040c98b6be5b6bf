package sim

// Config tunes the simulation. Zero-valued fields fall back to the
// matching Default() value, so partial overrides are safe to pass to
// Start. All durations are seconds, all distances pixels.
type Config struct {
	FieldWidth  float64 `yaml:"field_width" json:"fieldWidth"`
	FieldHeight float64 `yaml:"field_height" json:"fieldHeight"`

	// Core physics
	GravityX          float64 `yaml:"gravity_x" json:"gravityX"`
	GravityY          float64 `yaml:"gravity_y" json:"gravityY"`
	Friction          float64 `yaml:"friction" json:"friction"`
	MaxSpeed          float64 `yaml:"max_speed" json:"maxSpeed"`
	ImpulseForce      float64 `yaml:"impulse_force" json:"impulseForce"`
	ImpulseEnergyCost float64 `yaml:"impulse_energy_cost" json:"impulseEnergyCost"`

	// Core energy
	MaxEnergy   float64 `yaml:"max_energy" json:"maxEnergy"`
	StartEnergy float64 `yaml:"start_energy" json:"startEnergy"`
	CoreRadius  float64 `yaml:"core_radius" json:"coreRadius"`
	DecayRate   float64 `yaml:"decay_rate" json:"decayRate"`

	// Balance tuning
	ImbalanceThreshold float64 `yaml:"imbalance_threshold" json:"imbalanceThreshold"`
	ImbalancePenalty   float64 `yaml:"imbalance_penalty" json:"imbalancePenalty"`
	BalancePullFactor  float64 `yaml:"balance_pull_factor" json:"balancePullFactor"`
	BalanceBonus       float64 `yaml:"balance_bonus" json:"balanceBonus"`
	BalancedInterval   float64 `yaml:"balanced_interval" json:"balancedInterval"`

	// Waves
	WaveSpeed       float64 `yaml:"wave_speed" json:"waveSpeed"`
	MaxWaveDistance float64 `yaml:"max_wave_distance" json:"maxWaveDistance"`
	WaveLifeTime    float64 `yaml:"wave_life_time" json:"waveLifeTime"`
	WaveOpacity     float64 `yaml:"wave_opacity" json:"waveOpacity"`
	WaveEnergyCost  float64 `yaml:"wave_energy_cost" json:"waveEnergyCost"`

	// Resonators
	ResonatorCount     int     `yaml:"resonator_count" json:"resonatorCount"`
	ResonatorRing      float64 `yaml:"resonator_ring" json:"resonatorRing"`
	ResonatorRadius    float64 `yaml:"resonator_radius" json:"resonatorRadius"`
	IntensityRise      float64 `yaml:"intensity_rise" json:"intensityRise"`
	IntensitySlowDecay float64 `yaml:"intensity_slow_decay" json:"intensitySlowDecay"`
	IntensityFastDecay float64 `yaml:"intensity_fast_decay" json:"intensityFastDecay"`

	// Spawning
	DissonanceRate    float64 `yaml:"dissonance_rate" json:"dissonanceRate"`
	AmplifierRate     float64 `yaml:"amplifier_rate" json:"amplifierRate"`
	MinSpawnDistance  float64 `yaml:"min_spawn_distance" json:"minSpawnDistance"`
	AmplifierDuration float64 `yaml:"amplifier_duration" json:"amplifierDuration"`

	// Collision
	CollisionCooldown float64 `yaml:"collision_cooldown" json:"collisionCooldown"`
	KnockbackForce    float64 `yaml:"knockback_force" json:"knockbackForce"`

	// Progression
	PatternBaseValue float64 `yaml:"pattern_base_value" json:"patternBaseValue"`
	VictoryHarmony   int     `yaml:"victory_harmony" json:"victoryHarmony"`

	// Seed fixes the RNG for replayable runs. 0 means derive from the
	// wall clock at Start.
	Seed int64 `yaml:"seed" json:"seed"`

	Limits Limits `yaml:"limits" json:"limits"`
}

// Limits caps entity populations. Spawns beyond a cap are skipped, not
// queued, so a stalled client can never balloon engine memory.
type Limits struct {
	MaxDissonances int `yaml:"max_dissonances" json:"maxDissonances"`
	MaxAmplifiers  int `yaml:"max_amplifiers" json:"maxAmplifiers"`
	MaxWaves       int `yaml:"max_waves" json:"maxWaves"`
	MaxConnections int `yaml:"max_connections" json:"maxConnections"`
	MaxPatterns    int `yaml:"max_patterns" json:"maxPatterns"`
}

// Default returns the tuning used when no override is given.
func Default() Config {
	return Config{
		FieldWidth:  800,
		FieldHeight: 600,

		Friction:          0.4,
		MaxSpeed:          300,
		ImpulseForce:      150,
		ImpulseEnergyCost: 2,

		MaxEnergy:   100,
		StartEnergy: 100,
		CoreRadius:  20,
		DecayRate:   1.0,

		ImbalanceThreshold: 0.25,
		ImbalancePenalty:   0.5,
		BalancePullFactor:  0.25,
		BalanceBonus:       50,
		BalancedInterval:   3,

		WaveSpeed:       120,
		MaxWaveDistance: 260,
		WaveLifeTime:    4,
		WaveOpacity:     0.8,
		WaveEnergyCost:  5,

		ResonatorCount:     8,
		ResonatorRing:      200,
		ResonatorRadius:    12,
		IntensityRise:      2.0,
		IntensitySlowDecay: 0.15,
		IntensityFastDecay: 0.5,

		DissonanceRate:    0.5,
		AmplifierRate:     0.25,
		MinSpawnDistance:  120,
		AmplifierDuration: 5,

		CollisionCooldown: 0.6,
		KnockbackForce:    180,

		PatternBaseValue: 25,
		VictoryHarmony:   10,

		Limits: Limits{
			MaxDissonances: 6,
			MaxAmplifiers:  3,
			MaxWaves:       16,
			MaxConnections: 64,
			MaxPatterns:    32,
		},
	}
}

// normalized fills zero fields from Default. Negative rates are kept:
// a negative spawn rate disables that spawner, which tests rely on.
func (c Config) normalized() Config {
	d := Default()
	if c.FieldWidth == 0 {
		c.FieldWidth = d.FieldWidth
	}
	if c.FieldHeight == 0 {
		c.FieldHeight = d.FieldHeight
	}
	if c.Friction == 0 {
		c.Friction = d.Friction
	}
	if c.MaxSpeed == 0 {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.ImpulseForce == 0 {
		c.ImpulseForce = d.ImpulseForce
	}
	if c.ImpulseEnergyCost == 0 {
		c.ImpulseEnergyCost = d.ImpulseEnergyCost
	}
	if c.MaxEnergy == 0 {
		c.MaxEnergy = d.MaxEnergy
	}
	if c.StartEnergy == 0 {
		c.StartEnergy = d.StartEnergy
	}
	if c.CoreRadius == 0 {
		c.CoreRadius = d.CoreRadius
	}
	if c.DecayRate == 0 {
		c.DecayRate = d.DecayRate
	}
	if c.ImbalanceThreshold == 0 {
		c.ImbalanceThreshold = d.ImbalanceThreshold
	}
	if c.ImbalancePenalty == 0 {
		c.ImbalancePenalty = d.ImbalancePenalty
	}
	if c.BalancePullFactor == 0 {
		c.BalancePullFactor = d.BalancePullFactor
	}
	if c.BalanceBonus == 0 {
		c.BalanceBonus = d.BalanceBonus
	}
	if c.BalancedInterval == 0 {
		c.BalancedInterval = d.BalancedInterval
	}
	if c.WaveSpeed == 0 {
		c.WaveSpeed = d.WaveSpeed
	}
	if c.MaxWaveDistance == 0 {
		c.MaxWaveDistance = d.MaxWaveDistance
	}
	if c.WaveLifeTime == 0 {
		c.WaveLifeTime = d.WaveLifeTime
	}
	if c.WaveOpacity == 0 {
		c.WaveOpacity = d.WaveOpacity
	}
	if c.WaveEnergyCost == 0 {
		c.WaveEnergyCost = d.WaveEnergyCost
	}
	if c.ResonatorCount == 0 {
		c.ResonatorCount = d.ResonatorCount
	}
	if c.ResonatorRing == 0 {
		c.ResonatorRing = d.ResonatorRing
	}
	if c.ResonatorRadius == 0 {
		c.ResonatorRadius = d.ResonatorRadius
	}
	if c.IntensityRise == 0 {
		c.IntensityRise = d.IntensityRise
	}
	if c.IntensitySlowDecay == 0 {
		c.IntensitySlowDecay = d.IntensitySlowDecay
	}
	if c.IntensityFastDecay == 0 {
		c.IntensityFastDecay = d.IntensityFastDecay
	}
	if c.DissonanceRate == 0 {
		c.DissonanceRate = d.DissonanceRate
	}
	if c.AmplifierRate == 0 {
		c.AmplifierRate = d.AmplifierRate
	}
	if c.MinSpawnDistance == 0 {
		c.MinSpawnDistance = d.MinSpawnDistance
	}
	if c.AmplifierDuration == 0 {
		c.AmplifierDuration = d.AmplifierDuration
	}
	if c.CollisionCooldown == 0 {
		c.CollisionCooldown = d.CollisionCooldown
	}
	if c.KnockbackForce == 0 {
		c.KnockbackForce = d.KnockbackForce
	}
	if c.PatternBaseValue == 0 {
		c.PatternBaseValue = d.PatternBaseValue
	}
	if c.VictoryHarmony == 0 {
		c.VictoryHarmony = d.VictoryHarmony
	}
	if c.Limits.MaxDissonances == 0 {
		c.Limits.MaxDissonances = d.Limits.MaxDissonances
	}
	if c.Limits.MaxAmplifiers == 0 {
		c.Limits.MaxAmplifiers = d.Limits.MaxAmplifiers
	}
	if c.Limits.MaxWaves == 0 {
		c.Limits.MaxWaves = d.Limits.MaxWaves
	}
	if c.Limits.MaxConnections == 0 {
		c.Limits.MaxConnections = d.Limits.MaxConnections
	}
	if c.Limits.MaxPatterns == 0 {
		c.Limits.MaxPatterns = d.Limits.MaxPatterns
	}
	return c
}

// center returns the field midpoint.
func (c Config) center() Vec {
	return Vec{c.FieldWidth / 2, c.FieldHeight / 2}
}
