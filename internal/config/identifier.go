package config

type Identifier struct {
	Scheme      string `env:"SCHEME,expand" envDefault:"alphabet"`
	Alphabet    string `env:"ALPHABET,expand" envDefault:"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"`
	Length      int    `env:"LENGTH,expand" envDefault:"16"`
	MaxAttempts int    `env:"MAX_ATTEMPTS,expand" envDefault:"3"`
}
