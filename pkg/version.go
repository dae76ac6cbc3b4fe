package pensieve

// Version of the pensieve application and its packages.
const Version = "0.1.0"
